// seehuhn.de/go/annotcopy - copy annotations between matching PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package annotcopy

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/annotcopy/fingerprint"
	"seehuhn.de/go/annotcopy/pagetext"
)

// errPageCount is returned if a text extractor disagrees with the page
// tree about the number of pages.
var errPageCount = errors.New("page count mismatch")

// Match associates a destination page with the first source page which
// shows the same text.  Page numbers are 0-based.
type Match struct {
	Dest   int `json:"dest"`
	Source int `json:"source"`

	// HasAnnotations reports whether the source page has an annotation
	// collection.  Annotations is the number of entries in that collection.
	HasAnnotations bool `json:"has_annotations"`
	Annotations    int  `json:"annotations"`
}

// document holds the pages of an input file.
type document struct {
	r     pdf.Getter
	refs  []pdf.Reference
	pages []pdf.Dict
}

func loadDocument(r pdf.Getter) (*document, error) {
	n, err := pagetree.NumPages(r)
	if err != nil {
		return nil, err
	}

	doc := &document{
		r:     r,
		refs:  make([]pdf.Reference, n),
		pages: make([]pdf.Dict, n),
	}
	for i := range n {
		doc.refs[i], doc.pages[i], err = pagetree.GetPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
	}
	return doc, nil
}

// annots returns the annotation collection of a page.  The second return
// value is false if the page has none.
func (d *document) annots(pageNo int) (pdf.Array, bool, error) {
	obj, err := pdf.Resolve(d.r, d.pages[pageNo]["Annots"])
	if err != nil {
		return nil, false, fmt.Errorf("page %d: annotations: %w", pageNo, err)
	} else if obj == nil {
		return nil, false, nil
	}

	// An empty array still counts as an annotation collection.
	annots, err := pdf.GetArray(d.r, obj)
	if err != nil {
		return nil, false, fmt.Errorf("page %d: annotations: %w", pageNo, err)
	}
	return annots, true, nil
}

// plan describes which source annotations go to which destination page.
type plan struct {
	matches []Match

	// byDest maps destination page numbers to indices in matches.
	byDest map[int]int

	// annots holds the source annotation collection for each match.
	annots []pdf.Array

	// dest holds the fingerprints of all destination pages.
	dest []fingerprint.Fingerprint
}

func (p *plan) lookup(dest int) (Match, pdf.Array, bool) {
	k, ok := p.byDest[dest]
	if !ok {
		return Match{}, nil, false
	}
	return p.matches[k], p.annots[k], true
}

func matchPages(src, dst *document, opt *Options) (*plan, error) {
	srcText := opt.SourceText
	if srcText == nil {
		srcText = pagetext.New(src.r)
	}
	dstText := opt.DestText
	if dstText == nil {
		dstText = pagetext.New(dst.r)
	}
	fpOpt := &fingerprint.Options{Form: opt.Normalize}

	srcPrints, err := fingerprint.All(srcText, fpOpt)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	index := fingerprint.NewIndex(srcPrints)
	if index.Len() != len(src.pages) {
		return nil, fmt.Errorf("source: %w: text for %d pages, document has %d",
			errPageCount, index.Len(), len(src.pages))
	}

	p := &plan{
		byDest: make(map[int]int),
		dest:   make([]fingerprint.Fingerprint, len(dst.pages)),
	}
	for j := range dst.pages {
		f, err := fingerprint.Page(dstText, j, fpOpt)
		if err != nil {
			return nil, fmt.Errorf("destination: %w", err)
		}
		p.dest[j] = f
		i, found := index.Lookup(f)
		if !found {
			continue
		}

		annots, has, err := src.annots(i)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		p.byDest[j] = len(p.matches)
		p.matches = append(p.matches, Match{
			Dest:           j,
			Source:         i,
			HasAnnotations: has,
			Annotations:    len(annots),
		})
		p.annots = append(p.annots, annots)
	}
	return p, nil
}

// fileID derives a file identifier from the destination page text, for
// output files whose destination has none.  Equal inputs give equal IDs.
func (p *plan) fileID() []byte {
	h := sha256.New()
	for _, f := range p.dest {
		h.Write([]byte(f.String()))
		h.Write([]byte{'\n'})
	}
	return h.Sum(nil)[:16]
}
