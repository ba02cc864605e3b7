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

// Package testpdf writes small PDF files for use in tests.
//
// Every page shows at most one line of text in the Helvetica font and can
// carry text annotations, popup annotations, links to other pages and a
// square annotation with an appearance stream.  Files can optionally be
// encrypted.
package testpdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Page describes one page of a test document.
type Page struct {
	// Text is shown on the page.  If Text is empty, the page only contains
	// graphics.
	Text string

	// Notes lists the contents of text annotations on the page.
	Notes []string

	// Popup adds a popup annotation for each note.
	Popup bool

	// Links lists the (0-based) numbers of pages this page links to.
	Links []int

	// EmptyAnnots adds an empty /Annots array to pages without annotations.
	EmptyAnnots bool

	// Square adds a square annotation with a normal appearance stream.
	Square bool

	// Stray adds a reference to the page tree root to /Annots.  This entry
	// is not an annotation.
	Stray bool
}

func (p Page) hasAnnots() bool {
	return len(p.Notes) > 0 || len(p.Links) > 0 || p.EmptyAnnots || p.Square || p.Stray
}

// Encryption describes how a test file is encrypted.
type Encryption struct {
	// Version is the PDF version of the file.  This selects the cipher:
	// PDF 1.6 uses AES-128, PDF 2.0 uses AES-256.
	Version pdf.Version

	UserPassword  string
	OwnerPassword string
}

// Write writes a PDF file containing the given pages to w.
func Write(w io.Writer, pages ...Page) error {
	return WriteEncrypted(w, nil, pages...)
}

// WriteEncrypted is like [Write], but encrypts the file.  If enc is nil,
// the file is not encrypted.
func WriteEncrypted(w io.Writer, enc *Encryption, pages ...Page) error {
	version := pdf.V1_7
	var opt *pdf.WriterOptions
	if enc != nil {
		version = enc.Version
		opt = &pdf.WriterOptions{
			UserPassword:  enc.UserPassword,
			OwnerPassword: enc.OwnerPassword,
		}
	}
	out, err := pdf.NewWriter(w, version, opt)
	if err != nil {
		return err
	}

	fontRef := out.Alloc()
	err = out.Put(fontRef, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	})
	if err != nil {
		return err
	}

	pagesRef := out.Alloc()
	pageRefs := make([]pdf.Reference, len(pages))
	for i := range pages {
		pageRefs[i] = out.Alloc()
	}

	for i, p := range pages {
		contentRef := out.Alloc()
		stm, err := out.OpenStream(contentRef, nil)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stm, contentStream(p.Text))
		if err != nil {
			return err
		}
		err = stm.Close()
		if err != nil {
			return err
		}

		pageDict := pdf.Dict{
			"Type":     pdf.Name("Page"),
			"Parent":   pagesRef,
			"Contents": contentRef,
		}

		if p.hasAnnots() {
			annots := pdf.Array{}
			for j, note := range p.Notes {
				annotRef := out.Alloc()
				annot := pdf.Dict{
					"Type":     pdf.Name("Annot"),
					"Subtype":  pdf.Name("Text"),
					"Rect":     rect(72, 700-30*j, 92, 720-30*j),
					"Contents": pdf.String(note),
					"NM":       pdf.String(fmt.Sprintf("note-%d-%d", i, j)),
					"P":        pageRefs[i],
				}
				annots = append(annots, annotRef)

				if p.Popup {
					popupRef := out.Alloc()
					annot["Popup"] = popupRef
					err = out.Put(popupRef, pdf.Dict{
						"Type":    pdf.Name("Annot"),
						"Subtype": pdf.Name("Popup"),
						"Rect":    rect(100, 600-30*j, 300, 680-30*j),
						"Parent":  annotRef,
						"P":       pageRefs[i],
					})
					if err != nil {
						return err
					}
					annots = append(annots, popupRef)
				}

				err = out.Put(annotRef, annot)
				if err != nil {
					return err
				}
			}
			for j, target := range p.Links {
				if target < 0 || target >= len(pages) {
					return fmt.Errorf("page %d: link target %d out of range", i, target)
				}
				annots = append(annots, pdf.Dict{
					"Type":    pdf.Name("Annot"),
					"Subtype": pdf.Name("Link"),
					"Rect":    rect(72, 100+20*j, 200, 115+20*j),
					"Dest":    pdf.Array{pageRefs[target], pdf.Name("Fit")},
				})
			}
			if p.Square {
				annot, err := square(out, pageRefs[i])
				if err != nil {
					return err
				}
				annots = append(annots, annot)
			}
			if p.Stray {
				annots = append(annots, pagesRef)
			}
			pageDict["Annots"] = annots
		}

		err = out.Put(pageRefs[i], pageDict)
		if err != nil {
			return err
		}
	}

	kids := make(pdf.Array, len(pageRefs))
	for i, ref := range pageRefs {
		kids[i] = ref
	}
	// MediaBox and Resources are inherited by all pages
	err = out.Put(pagesRef, pdf.Dict{
		"Type":     pdf.Name("Pages"),
		"Kids":     kids,
		"Count":    pdf.Integer(len(pages)),
		"MediaBox": rect(0, 0, 612, 792),
		"Resources": pdf.Dict{
			"Font": pdf.Dict{"F1": fontRef},
		},
	})
	if err != nil {
		return err
	}

	out.GetMeta().Catalog.Pages = pagesRef
	return out.Close()
}

// SquareAppearance is the content of the appearance stream of square
// annotations.
const SquareAppearance = "1 0 0 RG 2 w 1 1 38 38 re S\n"

// square writes a square annotation and its appearance stream.
func square(out *pdf.Writer, pageRef pdf.Reference) (pdf.Reference, error) {
	apRef := out.Alloc()
	stm, err := out.OpenStream(apRef, pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox":    rect(0, 0, 40, 40),
	})
	if err != nil {
		return 0, err
	}
	_, err = io.WriteString(stm, SquareAppearance)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}

	annotRef := out.Alloc()
	err = out.Put(annotRef, pdf.Dict{
		"Type":     pdf.Name("Annot"),
		"Subtype":  pdf.Name("Square"),
		"Rect":     rect(400, 400, 440, 440),
		"Contents": pdf.String("box"),
		"P":        pageRef,
		"AP":       pdf.Dict{"N": apRef},
	})
	if err != nil {
		return 0, err
	}
	return annotRef, nil
}

// Bytes returns the contents of a PDF file with the given pages.
func Bytes(pages ...Page) ([]byte, error) {
	return EncryptedBytes(nil, pages...)
}

// EncryptedBytes returns the contents of an encrypted PDF file with the
// given pages.
func EncryptedBytes(enc *Encryption, pages ...Page) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := WriteEncrypted(buf, enc, pages...)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Open parses PDF data held in memory.  Encrypted data can only be read if
// the user password is empty.
func Open(data []byte) (*pdf.Reader, error) {
	return pdf.NewReader(bytes.NewReader(data), nil)
}

// OpenPassword parses encrypted PDF data held in memory, using the given
// password.
func OpenPassword(data []byte, passwd string) (*pdf.Reader, error) {
	opt := &pdf.ReaderOptions{
		ReadPassword: func([]byte, int) string { return passwd },
	}
	return pdf.NewReader(bytes.NewReader(data), opt)
}

// Appearance returns the content of the normal appearance stream of the
// given annotation on a page.
func Appearance(r pdf.Getter, pageNo, annotNo int) (string, error) {
	_, pageDict, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		return "", err
	}
	annots, err := pdf.GetArray(r, pageDict["Annots"])
	if err != nil {
		return "", err
	}
	if annotNo < 0 || annotNo >= len(annots) {
		return "", fmt.Errorf("page %d: no annotation %d", pageNo, annotNo)
	}
	annot, err := pdf.GetDict(r, annots[annotNo])
	if err != nil {
		return "", err
	}
	ap, err := pdf.GetDict(r, annot["AP"])
	if err != nil {
		return "", err
	}
	stm, err := pdf.GetStream(r, ap["N"])
	if err != nil {
		return "", err
	} else if stm == nil {
		return "", fmt.Errorf("page %d: annotation %d has no appearance", pageNo, annotNo)
	}
	decoded, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return "", err
	}
	defer decoded.Close()
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Texts builds one page per entry of texts.
func Texts(texts ...string) []Page {
	pages := make([]Page, len(texts))
	for i, text := range texts {
		pages[i].Text = text
	}
	return pages
}

// Annotations describes the annotations on a page, one string per
// annotation in the form "Subtype:Contents".  The second return value
// reports whether the page has an /Annots entry at all.
func Annotations(r pdf.Getter, pageNo int) ([]string, bool, error) {
	_, pageDict, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		return nil, false, err
	}
	if pageDict["Annots"] == nil {
		return nil, false, nil
	}
	annots, err := pdf.GetArray(r, pageDict["Annots"])
	if err != nil {
		return nil, true, err
	}

	res := []string{}
	for _, obj := range annots {
		annot, err := pdf.GetDict(r, obj)
		if err != nil {
			return nil, true, err
		}
		subtype, err := pdf.GetName(r, annot["Subtype"])
		if err != nil {
			return nil, true, err
		}
		contents, err := pdf.Resolve(r, annot["Contents"])
		if err != nil {
			return nil, true, err
		}
		s, _ := contents.(pdf.String)
		res = append(res, string(subtype)+":"+string(s))
	}
	return res, true, nil
}

func contentStream(text string) string {
	if text == "" {
		return "72 700 m 300 700 l S\n"
	}
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "BT\n/F1 12 Tf\n72 720 Td\n(" + r.Replace(text) + ") Tj\nET\n"
}

func rect(llx, lly, urx, ury int) pdf.Array {
	return pdf.Array{
		pdf.Integer(llx), pdf.Integer(lly),
		pdf.Integer(urx), pdf.Integer(ury),
	}
}
