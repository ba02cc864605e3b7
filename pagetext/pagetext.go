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

// Package pagetext extracts the text shown on individual PDF pages.
//
// Two extraction backends are provided.  [Reader] interprets the page
// content streams using [seehuhn.de/go/pdf/reader] and returns the text in
// content stream order.  [Layout] uses the layout analysis of
// github.com/tsawler/tabula, which reorders text into reading order.
package pagetext

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/reader"
)

// An Extractor returns the text of the pages of a document.
// Page numbers are 0-based.
type Extractor interface {
	NumPages() (int, error)
	PageText(pageNo int) (string, error)
}

// Reader extracts page text by parsing the page content streams.
type Reader struct {
	r pdf.Getter
}

// New returns an Extractor which reads the pages of r.
func New(r pdf.Getter) *Reader {
	return &Reader{r: r}
}

// NumPages returns the number of pages in the document.
func (e *Reader) NumPages() (int, error) {
	return pagetree.NumPages(e.r)
}

// PageText returns the text shown on the given page.
func (e *Reader) PageText(pageNo int) (string, error) {
	_, pageDict, err := pagetree.GetPage(e.r, pageNo)
	if err != nil {
		return "", err
	}
	return Page(e.r, pageDict)
}

// Page returns the text shown by the content streams of a page dictionary.
// Pages without content have no text.
func Page(r pdf.Getter, pageDict pdf.Dict) (string, error) {
	if pageDict["Contents"] == nil {
		return "", nil
	}

	var buf strings.Builder
	contents := reader.New(r, nil)
	contents.Text = func(text string) error {
		buf.WriteString(text)
		return nil
	}
	err := contents.ParsePage(pageDict, matrix.Identity)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Backend selects a text extraction method.
type Backend int

// These are the supported extraction backends.
const (
	ContentStream Backend = iota
	LayoutAnalysis
)

func (b Backend) String() string {
	switch b {
	case ContentStream:
		return "content"
	case LayoutAnalysis:
		return "layout"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name, as returned by [Backend.String],
// into a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "content":
		return ContentStream, nil
	case "layout":
		return LayoutAnalysis, nil
	default:
		return 0, fmt.Errorf("unknown text extraction method %q", name)
	}
}

var errPageRange = errors.New("page number out of range")
