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

// Pdf-annotcopy copies annotations between two versions of a PDF document.
//
// Every page of the destination file is compared to the pages of the source
// file.  If a source page shows exactly the same text, its annotations
// replace the annotations of the destination page.  The result is written to
// a new file, the input files are not modified.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"seehuhn.de/go/annotcopy"
	"seehuhn.de/go/annotcopy/fingerprint"
	"seehuhn.de/go/annotcopy/pagetext"

	"seehuhn.de/go/annotcopy/tools/internal/buildinfo"
	"seehuhn.de/go/annotcopy/tools/internal/profile"
)

// config holds all command-line flag values.
type config struct {
	output    string
	force     bool
	dryRun    bool
	quiet     bool
	json      bool
	unmatched bool
	normalize string
	extract   string
	passwd    string
	verbose   bool
	profile   profile.Config
}

func main() {
	var cfg config
	flag.StringVar(&cfg.output, "o", annotcopy.DefaultOutput, "output file `name`")
	flag.BoolVar(&cfg.force, "f", false, "overwrite output file if it exists")
	flag.BoolVar(&cfg.dryRun, "n", false, "show matching pages, but don't write any output")
	flag.BoolVar(&cfg.quiet, "q", false, "only report errors")
	flag.BoolVar(&cfg.json, "json", false, "write progress as JSON lines to stdout")
	flag.BoolVar(&cfg.unmatched, "unmatched", false, "report destination pages without a matching source page")
	flag.StringVar(&cfg.normalize, "normalize", "", "Unicode normalization of page text (nfc or nfkc)")
	flag.StringVar(&cfg.extract, "extract", "content", "text extraction `method` (content or layout)")
	flag.StringVar(&cfg.passwd, "passwd", "", "`password` for encrypted input files")
	flag.BoolVar(&cfg.verbose, "v", false, "show debug output")
	flag.StringVar(&cfg.profile.CPU, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&cfg.profile.Memory, "memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "show version information")
	help := flag.Bool("help", false, "show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-annotcopy \u2014 copy annotations to matching pages of another PDF file\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-annotcopy"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-annotcopy [options] <source.pdf> <destination.pdf>\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source.pdf       annotated PDF file\n")
		fmt.Fprintf(os.Stderr, "  destination.pdf  PDF file which receives the annotations\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPages are matched by their text.  Page numbers in messages start at 0.\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if *version {
		fmt.Println(buildinfo.Short("pdf-annotcopy"))
		return
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg, flag.Args(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, args []string, stdout, stderr io.Writer) (err error) {
	stop, err := cfg.profile.Start()
	if err != nil {
		return err
	}
	defer func() {
		stopErr := stop()
		if err == nil {
			err = stopErr
		}
	}()

	var events *eventWriter
	if cfg.json {
		events = newEventWriter(stdout)
		defer func() {
			if err != nil {
				events.Error(err)
			}
		}()
	}

	logLevel := slog.LevelWarn
	if cfg.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	opt, err := cfg.options(stderr)
	if err != nil {
		return err
	}
	srcName, dstName := args[0], args[1]
	logger.Debug("matching pages",
		"source", srcName,
		"destination", dstName,
		"normalize", opt.Normalize,
		"extract", opt.Extract)

	if cfg.dryRun {
		res, err := annotcopy.PlanFiles(srcName, dstName, opt)
		if err != nil {
			return err
		}
		for _, m := range res.Matches {
			switch {
			case events != nil:
				events.Match(m)
			case m.HasAnnotations:
				fmt.Fprintf(stdout, "%d <- %d (%d annotations)\n", m.Dest, m.Source, m.Annotations)
			default:
				fmt.Fprintf(stdout, "%d <- %d (no annotations)\n", m.Dest, m.Source)
			}
		}
		if events != nil {
			events.Result(res, "")
		}
		return nil
	}

	opt.Notify = func(e annotcopy.Event) {
		logger.Debug("progress", "kind", e.Kind, "source", e.Source, "dest", e.Dest, "count", e.Count)
		switch {
		case events != nil:
			events.Event(e)
		case !cfg.quiet:
			fmt.Fprintln(stderr, e)
		}
	}

	res, err := annotcopy.CopyFiles(srcName, dstName, cfg.output, opt)
	if err != nil {
		return err
	}

	switch {
	case events != nil:
		events.Result(res, cfg.output)
	case !cfg.quiet:
		fmt.Fprintf(stderr, "copied annotations to %d of %d pages, wrote %s\n",
			res.Copied, res.Pages, cfg.output)
	}
	return nil
}

// options converts the command-line flags into library options.
func (cfg *config) options(stderr io.Writer) (*annotcopy.Options, error) {
	form, err := fingerprint.ParseForm(cfg.normalize)
	if err != nil {
		return nil, err
	}
	backend, err := pagetext.ParseBackend(cfg.extract)
	if err != nil {
		return nil, err
	}
	if cfg.output == "" {
		cfg.output = annotcopy.DefaultOutput
	}

	opt := &annotcopy.Options{
		Normalize:       form,
		Extract:         backend,
		ReportUnmatched: cfg.unmatched,
		Overwrite:       cfg.force,
	}

	opt.ReadPassword = passwordFunc(cfg.passwd, stderr)
	return opt, nil
}
