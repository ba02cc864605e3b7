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

// Package fingerprint identifies PDF pages by their text content.
//
// A [Fingerprint] is the SHA-256 digest of the text shown on a page.  Pages
// which show no text have no usable fingerprint; they are represented by
// [None], which never compares equal to any fingerprint, not even to itself.
//
// Two pages which show byte-for-byte identical text have equal fingerprints,
// even if they differ in every other respect.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/annotcopy/pagetext"
)

// Fingerprint is a digest of the text content of a page.
// The zero value is [None].
type Fingerprint struct {
	sum   [sha256.Size]byte
	valid bool
}

// None is the fingerprint of a page without text.
var None Fingerprint

// FromText returns the fingerprint of the given page text.
// If text is empty, the result is [None].
func FromText(text string) Fingerprint {
	if text == "" {
		return None
	}
	return Fingerprint{
		sum:   sha256.Sum256([]byte(text)),
		valid: true,
	}
}

// Valid reports whether f is a usable fingerprint, i.e. whether f was
// computed from non-empty text.
func (f Fingerprint) Valid() bool {
	return f.valid
}

// Equal reports whether f and other are valid and identical.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.valid && other.valid && f.sum == other.sum
}

// String returns the fingerprint in hexadecimal notation, or "none".
func (f Fingerprint) String() string {
	if !f.valid {
		return "none"
	}
	return hex.EncodeToString(f.sum[:])
}

// Form is a Unicode normalization form applied to page text before hashing.
type Form int

// These are the supported normalization forms.
const (
	// Raw hashes the extracted text as it is.
	Raw Form = iota

	// NFC applies canonical composition.
	NFC

	// NFKC applies compatibility composition.  This maps ligatures like "ﬁ"
	// to their component letters.
	NFKC
)

func (f Form) String() string {
	switch f {
	case Raw:
		return "raw"
	case NFC:
		return "nfc"
	case NFKC:
		return "nfkc"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// ParseForm converts the name of a normalization form, as returned by
// [Form.String], into a Form.
func ParseForm(name string) (Form, error) {
	switch strings.ToLower(name) {
	case "", "raw", "none":
		return Raw, nil
	case "nfc":
		return NFC, nil
	case "nfkc":
		return NFKC, nil
	default:
		return 0, fmt.Errorf("unknown normalization form %q", name)
	}
}

func (f Form) apply(text string) string {
	switch f {
	case NFC:
		return norm.NFC.String(text)
	case NFKC:
		return norm.NFKC.String(text)
	default:
		return text
	}
}

// Options control how fingerprints are computed.
// A nil *Options is equivalent to the zero value.
type Options struct {
	Form Form
}

// Text returns the fingerprint of text after applying the normalization
// selected in opt.
func Text(text string, opt *Options) Fingerprint {
	if opt != nil {
		text = opt.Form.apply(text)
	}
	return FromText(text)
}

// Page extracts the text of a page and returns its fingerprint.
func Page(src pagetext.Extractor, pageNo int, opt *Options) (Fingerprint, error) {
	text, err := src.PageText(pageNo)
	if err != nil {
		return None, fmt.Errorf("page %d: %w", pageNo, err)
	}
	return Text(text, opt), nil
}

// All returns the fingerprints of all pages of a document, in page order.
func All(src pagetext.Extractor, opt *Options) ([]Fingerprint, error) {
	n, err := src.NumPages()
	if err != nil {
		return nil, err
	}
	res := make([]Fingerprint, n)
	for i := range n {
		res[i], err = Page(src, i, opt)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
