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

package main

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/xdg-go/stringprep"
	"golang.org/x/term"
)

// maxPrompts limits the number of interactive password prompts per file.
const maxPrompts = 3

var errInvalidPassword = errors.New("invalid password")

// passwordFunc returns a callback for [annotcopy.Options.ReadPassword].  The
// password given on the command line is tried first.  After that, the user
// is asked for a password if stdin is a terminal.
//
// Passwords which cannot be used with PDF 2.0 files are still passed on,
// since older security handlers accept them.  A warning is printed instead.
func passwordFunc(given string, stderr io.Writer) func([]byte, int) string {
	if given != "" {
		warnPassword(stderr, given)
	}
	interactive := term.IsTerminal(int(syscall.Stdin))

	return func(_ []byte, try int) string {
		if given != "" {
			if try == 0 {
				return given
			}
			try--
		}
		if !interactive || try >= maxPrompts {
			return ""
		}

		fmt.Fprint(stderr, "password: ")
		passwd, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(stderr)
		if err != nil {
			return ""
		}
		warnPassword(stderr, string(passwd))
		return string(passwd)
	}
}

func warnPassword(stderr io.Writer, passwd string) {
	if err := checkPassword(passwd); err != nil {
		fmt.Fprintf(stderr, "warning: %v (only usable for files before PDF 2.0)\n", err)
	}
}

// checkPassword verifies that a password can be used for PDF 2.0 encryption.
// PDF 2.0 passwords are processed with the SASLprep profile of stringprep.
func checkPassword(passwd string) error {
	_, err := stringprep.SASLprep.Prepare(passwd)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidPassword, err)
	}
	return nil
}
