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

// Licensify adds the GPL license header to all Go source files below the
// current directory.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const header = `// seehuhn.de/go/annotcopy - copy annotations between matching PDF pages
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

`

func main() {
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		changed, err := licensify(path)
		if err != nil {
			fmt.Println("ATTENTION " + path + ": " + err.Error())
		} else if changed {
			fmt.Println("updating " + path)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

// skipDir reports whether a directory is ignored by the go tool.
func skipDir(path string) bool {
	name := filepath.Base(path)
	if name == "." {
		return false
	}
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata"
}

// licensify adds the license header to a file, unless it is already there.
func licensify(path string) (bool, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	res, err := withHeader(body)
	if err != nil {
		return false, err
	}
	if bytes.Equal(res, body) {
		return false, nil
	}
	return true, os.WriteFile(path, res, 0666)
}

// withHeader returns body with the license header prepended.  Files which
// start with a different copyright notice are rejected.
func withHeader(body []byte) ([]byte, error) {
	if bytes.HasPrefix(body, []byte(header)) {
		return body, nil
	}
	firstLine, _, _ := bytes.Cut(body, []byte("\n"))
	if bytes.Contains(bytes.ToLower(firstLine), []byte("copyright")) ||
		bytes.HasPrefix(body, []byte("// seehuhn.de/")) {
		return nil, fmt.Errorf("unexpected license header")
	}
	if bytes.HasPrefix(body, []byte("//go:build")) {
		return nil, fmt.Errorf("build constraint before header")
	}

	res := make([]byte, 0, len(header)+len(body))
	res = append(res, header...)
	res = append(res, body...)
	return res, nil
}
