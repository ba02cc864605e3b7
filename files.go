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

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/annotcopy/pagetext"
)

// DefaultOutput is the output file name used by [CopyFiles] if no name is
// given.
const DefaultOutput = "out.pdf"

var (
	// ErrOutputExists is returned by [CopyFiles] if the output file exists
	// and [Options.Overwrite] is not set.
	ErrOutputExists = errors.New("output file already exists")

	errSameFile = errors.New("output file must differ from the input files")
)

// CopyFiles copies annotations from the PDF file srcName onto the matching
// pages of dstName and writes the result to outName.
//
// If an error occurs, no output file is left behind.  The [Summary] event is
// sent only once the output file has been closed.
func CopyFiles(srcName, dstName, outName string, opt *Options) (*Result, error) {
	if outName == "" {
		outName = DefaultOutput
	}
	for _, in := range []string{srcName, dstName} {
		if sameFile(in, outName) {
			return nil, fmt.Errorf("%s: %w", outName, errSameFile)
		}
	}

	in, err := openInputs(srcName, dstName, opt)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	fd, err := createOutput(outName, in.opt.Overwrite)
	if err != nil {
		return nil, err
	}

	res, err := copyTo(in.src, in.dst, fd, &in.opt)
	if err != nil {
		fd.Close()
		os.Remove(outName)
		return nil, err
	}

	err = fd.Close()
	if err != nil {
		os.Remove(outName)
		return nil, err
	}
	in.opt.summarize(res)
	return res, nil
}

// PlanFiles is like [Plan], but reads the named PDF files.
func PlanFiles(srcName, dstName string, opt *Options) (*Result, error) {
	in, err := openInputs(srcName, dstName, opt)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return Plan(in.src, in.dst, &in.opt)
}

// inputs holds the open input files of [CopyFiles] and [PlanFiles].
type inputs struct {
	src, dst *pdf.Reader
	opt      Options
	closers  []io.Closer
}

func openInputs(srcName, dstName string, opt *Options) (_ *inputs, err error) {
	in := &inputs{}
	if opt != nil {
		in.opt = *opt
	}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	var ropt *pdf.ReaderOptions
	if in.opt.ReadPassword != nil {
		ropt = &pdf.ReaderOptions{
			ReadPassword: in.opt.ReadPassword,
		}
	}

	in.src, err = pdf.Open(srcName, ropt)
	if err != nil {
		return nil, err
	}
	in.closers = append(in.closers, in.src)

	in.dst, err = pdf.Open(dstName, ropt)
	if err != nil {
		return nil, err
	}
	in.closers = append(in.closers, in.dst)

	if in.opt.Extract == pagetext.LayoutAnalysis {
		if in.opt.SourceText == nil {
			l, err := pagetext.OpenLayout(srcName)
			if err != nil {
				return nil, err
			}
			in.closers = append(in.closers, l)
			in.opt.SourceText = l
		}
		if in.opt.DestText == nil {
			l, err := pagetext.OpenLayout(dstName)
			if err != nil {
				return nil, err
			}
			in.closers = append(in.closers, l)
			in.opt.DestText = l
		}
	}
	return in, nil
}

func (in *inputs) Close() error {
	var errs []error
	for _, c := range slices.Backward(in.closers) {
		errs = append(errs, c.Close())
	}
	in.closers = nil
	return errors.Join(errs...)
}

// createOutput creates the output file.  Unless overwrite is set, an
// existing file is not replaced.
func createOutput(name string, overwrite bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	fd, err := os.OpenFile(name, flags, 0666)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%s: %w", name, ErrOutputExists)
	} else if err != nil {
		return nil, err
	}
	return fd, nil
}

func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}
