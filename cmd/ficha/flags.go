package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// registerFlags locate the risk register.
type registerFlags struct {
	path      string
	sheet     string
	headerRow int
}

// layoutFlags select the output format and template overrides.
type layoutFlags struct {
	format      string
	logoDir     string
	pageSize    string
	orientation string
	validity    string
	timeout     string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common   commonFlags
	register registerFlags
	layout   layoutFlags
	output   string
}

// listFlags holds all flags for the list command.
type listFlags struct {
	common   commonFlags
	register registerFlags
	long     bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common   commonFlags
	register registerFlags
	layout   layoutFlags
	addr     string
	workers  int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addRegisterFlags adds register location flags to a FlagSet.
func addRegisterFlags(fs *flag.FlagSet, f *registerFlags) {
	fs.StringVarP(&f.path, "register", "r", "", "risk register file (.xlsx or .csv)")
	fs.StringVar(&f.sheet, "sheet", "", "workbook sheet (default LMM_ORG_04)")
	fs.IntVar(&f.headerRow, "header-row", 0, "1-based row of the column titles (default 17)")
}

// addLayoutFlags adds output and template flags to a FlagSet.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html, chrome")
	fs.StringVar(&f.logoDir, "logo-dir", "", "directory holding the logo image")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.validity, "validity", "", "validity date printed in the header")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "chrome page load timeout (e.g., 30s, 2m)")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", printRenderUsage, stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (\"-\" = stdout)")
	addCommonFlags(fs, &f.common)
	addRegisterFlags(fs, &f.register)
	addLayoutFlags(fs, &f.layout)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseListFlags parses list command flags.
func parseListFlags(args []string, stderr io.Writer) (*listFlags, []string, error) {
	fs := newFlagSet("list", printListUsage, stderr)
	f := &listFlags{}

	fs.BoolVarP(&f.long, "long", "l", false, "also print the identified risk")
	addCommonFlags(fs, &f.common)
	addRegisterFlags(fs, &f.register)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	fs := newFlagSet("serve", printServeUsage, stderr)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "chrome renderers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRegisterFlags(fs, &f.register)
	addLayoutFlags(fs, &f.layout)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
