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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWithHeader(t *testing.T) {
	body := []byte("// Package x does things.\npackage x\n")
	res, err := withHeader(body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(res), header) || !strings.HasSuffix(string(res), string(body)) {
		t.Errorf("unexpected result:\n%s", res)
	}

	again, err := withHeader(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(res) {
		t.Error("header added twice")
	}

	_, err = withHeader([]byte("// Copyright 2020 Someone Else\npackage x\n"))
	if err == nil {
		t.Error("foreign copyright notice not detected")
	}
}

func TestLicensify(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "a.go")
	err := os.WriteFile(fname, []byte("package a\n"), 0666)
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{true, false} {
		changed, err := licensify(fname)
		if err != nil {
			t.Fatal(err)
		}
		if changed != want {
			t.Errorf("run %d: changed = %t, want %t", i, changed, want)
		}
	}
}

func TestSkipDir(t *testing.T) {
	cases := map[string]bool{
		".":                 false,
		"tools":             false,
		"_examples":         true,
		"pagetext/testdata": true,
		".git":              true,
	}
	for path, want := range cases {
		if got := skipDir(path); got != want {
			t.Errorf("%s: got %t, want %t", path, got, want)
		}
	}
}
