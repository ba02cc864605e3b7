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

// Package annotcopy copies annotations between corresponding pages of two
// PDF files.
//
// Pages are matched by their text content: every page of the destination
// file is compared to the pages of the source file, and the first source page
// which shows exactly the same text is taken as the corresponding page.  If
// this source page has annotations, they replace the annotations of the
// destination page in the output.  All other pages are copied unchanged.
//
// A typical use is to carry comments made on one version of a document over
// to a re-typeset version where page breaks moved:
//
//	res, err := annotcopy.CopyFiles("commented.pdf", "new.pdf", "out.pdf", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Copied, "pages annotated")
//
// Pages which show no text never match.  Pages with identical text always
// match, even if they differ otherwise.  If several source pages show the
// same text, the first one is used.
package annotcopy

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/annotcopy/fingerprint"
	"seehuhn.de/go/annotcopy/internal/objcopy"
	"seehuhn.de/go/annotcopy/pagetext"
)

// Options control the behaviour of [Copy], [Plan] and [CopyFiles].
// A nil *Options is equivalent to the zero value.
type Options struct {
	// Normalize selects a Unicode normalization form applied to page text
	// before pages are compared.  The default is to compare text as
	// extracted.
	Normalize fingerprint.Form

	// SourceText and DestText, if set, are used to obtain the page text of
	// the source and destination document.  By default, text is extracted
	// from the page content streams.
	SourceText pagetext.Extractor
	DestText   pagetext.Extractor

	// Extract selects the text extraction method used by [CopyFiles] when
	// SourceText or DestText is not set.
	Extract pagetext.Backend

	// ReportUnmatched enables [Unmatched] events.
	ReportUnmatched bool

	// Notify, if set, is called synchronously for every progress event.
	Notify func(Event)

	// Overwrite allows [CopyFiles] to replace an existing output file.
	Overwrite bool

	// ReadPassword is used by [CopyFiles] to obtain passwords for encrypted
	// input files.  See [pdf.ReaderOptions] for details.
	ReadPassword func(ID []byte, try int) string
}

func (opt *Options) notify(e Event) {
	if opt.Notify != nil {
		opt.Notify(e)
	}
}

// summarize sends the [Summary] event, once the output is complete.
func (opt *Options) summarize(res *Result) {
	if res.Copied > 0 {
		opt.notify(Event{Kind: Summary, Source: -1, Dest: -1, Count: res.Annotations})
	}
}

// Result summarizes a copy operation.
type Result struct {
	// Pages is the number of pages in the destination document (and in the
	// output).
	Pages int

	// Matches lists the destination pages for which a source page with the
	// same text was found, in destination page order.
	Matches []Match

	// Copied is the number of pages which received annotations.
	Copied int

	// Annotations is the total number of annotations copied.  For [Plan],
	// this counts all entries of the source annotation collections, some of
	// which may turn out to be null when copied.
	Annotations int
}

// Plan determines which destination pages would receive annotations, without
// writing any output.
func Plan(src, dst pdf.Getter, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}

	_, d, p, err := prepare(src, dst, opt)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Pages:   len(d.pages),
		Matches: p.matches,
	}
	for _, m := range p.matches {
		if m.HasAnnotations {
			res.Copied++
			res.Annotations += m.Annotations
		}
	}
	return res, nil
}

// Copy writes a copy of dst to out, in which every page that matches a page
// of src carries the annotations of the matching source page.
//
// The annotations are deep-copied, separately for every destination page;
// the output does not share annotation objects between pages.  References
// from copied annotations to their source page are changed to point to the
// output page.  References to other source pages point to the first output
// page matching them, or are replaced by null if there is none.
//
// Progress is reported through opt.Notify.  The [Summary] event is sent
// after the output has been written completely.  If an error is returned, the
// data written to out must be discarded.
func Copy(src, dst pdf.Getter, out io.Writer, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}

	res, err := copyTo(src, dst, out, opt)
	if err != nil {
		return nil, err
	}
	opt.summarize(res)
	return res, nil
}

// copyTo does the work of [Copy], except for sending the [Summary] event.
func copyTo(src, dst pdf.Getter, out io.Writer, opt *Options) (*Result, error) {
	s, d, p, err := prepare(src, dst, opt)
	if err != nil {
		return nil, err
	}

	v := max(src.GetMeta().Version, dst.GetMeta().Version)
	w, err := pdf.NewWriter(out, v, nil)
	if err != nil {
		return nil, err
	}

	res, err := writeOutput(w, s, d, p, opt)
	if err != nil {
		return nil, err
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func prepare(src, dst pdf.Getter, opt *Options) (*document, *document, *plan, error) {
	s, err := loadDocument(src)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("source: %w", err)
	}
	d, err := loadDocument(dst)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("destination: %w", err)
	}
	p, err := matchPages(s, d, opt)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, d, p, nil
}

func writeOutput(w *pdf.Writer, s, d *document, p *plan, opt *Options) (*Result, error) {
	n := len(d.pages)
	res := &Result{
		Pages:   n,
		Matches: p.matches,
	}

	pagesRef := w.Alloc()
	outRefs := make([]pdf.Reference, n)
	for j := range outRefs {
		outRefs[j] = w.Alloc()
	}

	dstCopier := objcopy.New(w, d.r)
	for j, ref := range d.refs {
		if ref != 0 {
			dstCopier.Redirect(ref, outRefs[j])
		}
	}

	// Links from copied annotations to matched source pages point to the
	// first corresponding output page.
	targets := make(map[pdf.Reference]pdf.Reference)
	for _, m := range p.matches {
		ref := s.refs[m.Source]
		if _, seen := targets[ref]; !seen && ref != 0 {
			targets[ref] = outRefs[m.Dest]
		}
	}

	for j := range n {
		m, annotsIn, matched := p.lookup(j)
		replace := matched && m.HasAnnotations

		pageIn := maps.Clone(d.pages[j])
		delete(pageIn, "Parent")
		if replace {
			delete(pageIn, "Annots")
		}

		pageOut, err := dstCopier.CopyDict(pageIn)
		if err != nil {
			return nil, fmt.Errorf("destination page %d: %w", j, err)
		}

		switch {
		case replace:
			// Every page gets its own copy of the annotations, even if
			// several pages match the same source page.
			srcCopier := objcopy.New(w, s.r)
			for from, to := range targets {
				srcCopier.Redirect(from, to)
			}
			if ref := s.refs[m.Source]; ref != 0 {
				srcCopier.Redirect(ref, outRefs[j])
			}
			annots, err := srcCopier.CopyArray(annotsIn)
			if err != nil {
				return nil, fmt.Errorf("source page %d: annotations: %w", m.Source, err)
			}
			// Entries which became null are not annotations.
			annots = slices.DeleteFunc(annots, func(obj pdf.Object) bool {
				return obj == nil
			})
			pageOut["Annots"] = annots
			res.Copied++
			res.Annotations += len(annots)
			opt.notify(Event{Kind: Copied, Source: m.Source, Dest: j, Count: len(annots)})
		case matched:
			opt.notify(Event{Kind: NoAnnotations, Source: m.Source, Dest: j, Count: 0})
		case opt.ReportUnmatched:
			opt.notify(Event{Kind: Unmatched, Source: -1, Dest: j, Count: 0})
		}

		pageOut["Type"] = pdf.Name("Page")
		pageOut["Parent"] = pagesRef
		err = w.Put(outRefs[j], pageOut)
		if err != nil {
			return nil, err
		}
	}

	kids := make(pdf.Array, n)
	for j, ref := range outRefs {
		kids[j] = ref
	}
	err := w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(n),
	})
	if err != nil {
		return nil, err
	}

	metaIn := d.r.GetMeta()
	metaOut := w.GetMeta()
	metaOut.Catalog.Pages = pagesRef
	metaOut.Info = metaIn.Info
	metaOut.ID = metaIn.ID
	if len(metaOut.ID) != 2 {
		id := p.fileID()
		metaOut.ID = [][]byte{id, id}
	}

	return res, nil
}
