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

// Package objcopy copies PDF objects from one file into another.
//
// Unlike [pdf.Copier], a [Copier] visits dictionary keys in sorted order, so
// that copying the same objects twice allocates the same object numbers in
// the output file.  Page objects and page tree nodes are never copied
// implicitly: references to pages must be mapped to their new location using
// [Copier.Redirect], unmapped references to pages are replaced by null.
package objcopy

import (
	"maps"
	"slices"

	"seehuhn.de/go/pdf"
)

// A Copier copies objects from a PDF file r into a PDF file w.
// Each indirect object is copied at most once.
type Copier struct {
	w       *pdf.Writer
	r       pdf.Getter
	trans   map[pdf.Reference]pdf.Reference
	dropped map[pdf.Reference]bool
}

// New creates a Copier which reads from r and writes to w.
func New(w *pdf.Writer, r pdf.Getter) *Copier {
	return &Copier{
		w:       w,
		r:       r,
		trans:   make(map[pdf.Reference]pdf.Reference),
		dropped: make(map[pdf.Reference]bool),
	}
}

// Redirect maps the object origRef in the input file to newRef in the output
// file.  The object itself is not copied.
//
// Redirect must be called before any reference to origRef is copied.
func (c *Copier) Redirect(origRef, newRef pdf.Reference) {
	c.trans[origRef] = newRef
	delete(c.dropped, origRef)
}

// Copy copies an object, recursively.  Indirect objects reachable from obj
// are allocated in the output file as needed.
//
// The result is nil if obj refers to a page which has not been redirected.
func (c *Copier) Copy(obj pdf.Object) (pdf.Object, error) {
	switch x := obj.(type) {
	case pdf.Dict:
		return c.CopyDict(x)
	case pdf.Array:
		return c.CopyArray(x)
	case *pdf.Stream:
		dict, err := c.CopyDict(x.Dict)
		if err != nil {
			return nil, err
		}
		// The reader hands out decrypted data, so the length of the
		// original may not match.  The writer fills in the correct value.
		delete(dict, "Length")
		res := &pdf.Stream{
			Dict: dict,
			R:    x.R,
		}
		return res, nil
	case pdf.Reference:
		return c.CopyReference(x)
	default:
		return obj, nil
	}
}

// CopyDict copies a dictionary.  Entries which become null are omitted.
func (c *Copier) CopyDict(obj pdf.Dict) (pdf.Dict, error) {
	res := pdf.Dict{}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		val := obj[key]
		if val == nil {
			continue
		}
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		if repl == nil {
			continue
		}
		res[key] = repl
	}
	return res, nil
}

// CopyArray copies an array.
func (c *Copier) CopyArray(obj pdf.Array) (pdf.Array, error) {
	res := make(pdf.Array, 0, len(obj))
	for _, val := range obj {
		var repl pdf.Object
		if val != nil {
			var err error
			repl, err = c.Copy(val)
			if err != nil {
				return nil, err
			}
		}
		res = append(res, repl)
	}
	return res, nil
}

// CopyReference copies an indirect object and returns the reference to the
// copy.  If the object is a page or a page tree node which has not been
// redirected, the result is nil.
func (c *Copier) CopyReference(ref pdf.Reference) (pdf.Object, error) {
	if newRef, ok := c.trans[ref]; ok {
		return newRef, nil
	}
	if c.dropped[ref] {
		return nil, nil
	}

	val, err := pdf.Resolve(c.r, ref)
	if err != nil {
		return nil, err
	} else if val == nil {
		return nil, nil
	}
	if dict, ok := val.(pdf.Dict); ok && isPageNode(dict) {
		c.dropped[ref] = true
		return nil, nil
	}

	newRef := c.w.Alloc()
	c.trans[ref] = newRef

	repl, err := c.Copy(val)
	if err != nil {
		return nil, err
	}
	err = c.w.Put(newRef, repl)
	if err != nil {
		return nil, err
	}
	return newRef, nil
}

func isPageNode(dict pdf.Dict) bool {
	tp, _ := dict["Type"].(pdf.Name)
	return tp == "Page" || tp == "Pages"
}
