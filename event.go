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

import "fmt"

// EventKind identifies the type of a progress [Event].
type EventKind int

// These are the kinds of progress events.
const (
	// Copied reports that the annotations of a source page have been copied
	// to a destination page.
	Copied EventKind = iota + 1

	// NoAnnotations reports that a destination page matched a source page
	// without annotations.
	NoAnnotations

	// Unmatched reports a destination page for which no source page with
	// the same text was found.  These events are only sent if
	// [Options.ReportUnmatched] is set.
	Unmatched

	// Summary is sent once, after the output has been written, if
	// annotations were copied to at least one page.
	Summary
)

func (k EventKind) String() string {
	switch k {
	case Copied:
		return "copied"
	case NoAnnotations:
		return "no-annotations"
	case Unmatched:
		return "unmatched"
	case Summary:
		return "summary"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind := Copied; kind <= Summary; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is a progress notification sent during [Copy].
//
// Page numbers are 0-based.  Fields which do not apply to an event kind are
// set to -1.
type Event struct {
	Kind   EventKind `json:"kind"`
	Source int       `json:"source"`
	Dest   int       `json:"dest"`

	// Count is the number of annotations copied.  For Summary events this is
	// the total over all pages.
	Count int `json:"count"`
}

// String returns a human-readable description of the event.
func (e Event) String() string {
	switch e.Kind {
	case Copied:
		return fmt.Sprintf("annotations copied from source page %d to destination page %d",
			e.Source, e.Dest)
	case NoAnnotations:
		return fmt.Sprintf("no annotations found in source page %d", e.Source)
	case Unmatched:
		return fmt.Sprintf("no matching source page for destination page %d", e.Dest)
	case Summary:
		return "annotations detected and copied to the output file"
	default:
		return e.Kind.String()
	}
}
