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

package pagetext

import (
	"fmt"

	"github.com/tsawler/tabula"
	tabreader "github.com/tsawler/tabula/reader"
)

// Layout extracts page text using the layout analysis of the tabula
// library.  Text is returned in reading order, which makes the result
// independent of the order in which a PDF producer emitted the text.
type Layout struct {
	r        *tabreader.Reader
	numPages int
}

// OpenLayout opens the named PDF file for layout based text extraction.
// The caller must close the returned Layout.
func OpenLayout(fileName string) (*Layout, error) {
	r, err := tabreader.Open(fileName)
	if err != nil {
		return nil, err
	}
	n, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return &Layout{r: r, numPages: n}, nil
}

// NumPages returns the number of pages in the document.
func (l *Layout) NumPages() (int, error) {
	return l.numPages, nil
}

// PageText returns the text of the given page.
func (l *Layout) PageText(pageNo int) (string, error) {
	if pageNo < 0 || pageNo >= l.numPages {
		return "", errPageRange
	}

	// tabula numbers pages starting from 1
	text, _, err := tabula.FromReader(l.r).Pages(pageNo + 1).Text()
	if err != nil {
		return "", err
	}
	return text, nil
}

// Close releases the underlying file.
func (l *Layout) Close() error {
	return l.r.Close()
}
