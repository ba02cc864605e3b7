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

package objcopy

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/annotcopy/internal/testpdf"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// copyPage writes a one-page PDF file whose page carries the annotations of
// page pageNo of the input.
func copyPage(t *testing.T, in []byte, pageNo int) (*pdf.Reader, pdf.Array) {
	t.Helper()

	r, err := testpdf.Open(in)
	if err != nil {
		t.Fatal(err)
	}
	refIn, pageIn, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		t.Fatal(err)
	}
	annotsIn, err := pdf.GetArray(r, pageIn["Annots"])
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	pagesRef := w.Alloc()
	pageRef := w.Alloc()

	c := New(w, r)
	c.Redirect(refIn, pageRef)
	annots, err := c.CopyArray(annotsIn)
	if err != nil {
		t.Fatal(err)
	}

	err = w.Put(pageRef, pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(612), pdf.Integer(792)},
		"Annots":   annots,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{pageRef},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	w.GetMeta().Catalog.Pages = pagesRef
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	out, err := testpdf.Open(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return out, annots
}

func TestRedirectPage(t *testing.T) {
	in, err := testpdf.Bytes(
		testpdf.Page{Text: "one", Notes: []string{"first", "second"}, Popup: true},
		testpdf.Page{Text: "two"},
	)
	if err != nil {
		t.Fatal(err)
	}

	r, _ := copyPage(t, in, 0)

	got, _, err := testpdf.Annotations(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Text:first", "Popup:", "Text:second", "Popup:"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("annotations differ (-want +got):\n%s", d)
	}

	pageRef, pageDict, err := pagetree.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	annots, err := pdf.GetArray(r, pageDict["Annots"])
	if err != nil {
		t.Fatal(err)
	}
	for i, obj := range annots {
		annot, err := pdf.GetDict(r, obj)
		if err != nil {
			t.Fatal(err)
		}
		if p, _ := annot["P"].(pdf.Reference); p != pageRef {
			t.Errorf("annotation %d: /P = %v, want %v", i, annot["P"], pageRef)
		}
	}

	// the popup must point back to its parent annotation
	text, err := pdf.GetDict(r, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	popup, err := pdf.GetDict(r, text["Popup"])
	if err != nil {
		t.Fatal(err)
	}
	if popup["Parent"] != annots[0] {
		t.Errorf("popup parent %v, want %v", popup["Parent"], annots[0])
	}
}

func TestForeignPageDropped(t *testing.T) {
	in, err := testpdf.Bytes(
		testpdf.Page{Text: "one", Links: []int{1}},
		testpdf.Page{Text: "two"},
	)
	if err != nil {
		t.Fatal(err)
	}

	r, _ := copyPage(t, in, 0)

	n, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("output has %d pages, want 1", n)
	}

	_, pageDict, err := pagetree.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	annots, err := pdf.GetArray(r, pageDict["Annots"])
	if err != nil {
		t.Fatal(err)
	}
	link, err := pdf.GetDict(r, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	dest, err := pdf.GetArray(r, link["Dest"])
	if err != nil {
		t.Fatal(err)
	}
	if len(dest) != 2 || dest[0] != nil {
		t.Errorf("link destination %v, want [null /Fit]", dest)
	}
}

func TestDeterministic(t *testing.T) {
	in, err := testpdf.Bytes(
		testpdf.Page{Text: "x", Notes: []string{"a", "b", "c"}, Popup: true},
	)
	if err != nil {
		t.Fatal(err)
	}

	_, first := copyPage(t, in, 0)
	for range 5 {
		_, again := copyPage(t, in, 0)
		if d := cmp.Diff(first, again); d != "" {
			t.Fatalf("object allocation is not deterministic (-first +again):\n%s", d)
		}
	}
}

func TestScalarsUnchanged(t *testing.T) {
	c := &Copier{
		trans:   map[pdf.Reference]pdf.Reference{},
		dropped: map[pdf.Reference]bool{},
	}
	for _, obj := range []pdf.Object{
		pdf.Integer(7),
		pdf.Name("Fit"),
		pdf.String("text"),
		pdf.Boolean(true),
	} {
		got, err := c.Copy(obj)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(obj, got); d != "" {
			t.Errorf("copy of %v changed (-want +got):\n%s", obj, d)
		}
	}

	got, err := c.CopyDict(pdf.Dict{"A": pdf.Integer(1), "B": nil})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(pdf.Dict{"A": pdf.Integer(1)}, got); d != "" {
		t.Errorf("null entries not removed (-want +got):\n%s", d)
	}
}

// TestEncryptedStream copies an appearance stream out of an AES encrypted
// file, where the stored length exceeds the length of the decrypted data.
func TestEncryptedStream(t *testing.T) {
	enc := &testpdf.Encryption{Version: pdf.V2_0, OwnerPassword: "owner"}
	in, err := testpdf.EncryptedBytes(enc, testpdf.Page{Text: "x", Square: true})
	if err != nil {
		t.Fatal(err)
	}

	r, _ := copyPage(t, in, 0)

	ap, err := testpdf.Appearance(r, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ap != testpdf.SquareAppearance {
		t.Errorf("appearance %q, want %q", ap, testpdf.SquareAppearance)
	}
}
