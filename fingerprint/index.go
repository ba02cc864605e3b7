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

package fingerprint

import "crypto/sha256"

// Index finds the first page with a given fingerprint.
//
// Lookup gives the same result as scanning the fingerprints in page order
// and stopping at the first equal one.
type Index struct {
	first map[[sha256.Size]byte]int
	n     int
}

// NewIndex creates an index for the given fingerprints.
// Invalid fingerprints are not indexed.
func NewIndex(fps []Fingerprint) *Index {
	idx := &Index{
		first: make(map[[sha256.Size]byte]int, len(fps)),
		n:     len(fps),
	}
	for i, f := range fps {
		if !f.valid {
			continue
		}
		if _, seen := idx.first[f.sum]; !seen {
			idx.first[f.sum] = i
		}
	}
	return idx
}

// Lookup returns the index of the first fingerprint equal to f.
// The second return value is false if no such fingerprint exists, in
// particular if f is not valid.
func (idx *Index) Lookup(f Fingerprint) (int, bool) {
	if !f.valid {
		return 0, false
	}
	i, ok := idx.first[f.sum]
	return i, ok
}

// Len returns the number of fingerprints the index was built from,
// including invalid ones.
func (idx *Index) Len() int {
	return idx.n
}
