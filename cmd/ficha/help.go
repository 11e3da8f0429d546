package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ficha <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render the risk sheet of one register entry")
	fmt.Fprintln(w, "  list       List the risk identifiers of the register")
	fmt.Fprintln(w, "  serve      Serve risk sheets over HTTP")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ficha help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printRegisterUsage(w io.Writer) {
	fmt.Fprintln(w, "Register:")
	fmt.Fprintln(w, "  -r, --register <path>     Risk register file (.xlsx or .csv)")
	fmt.Fprintln(w, "      --sheet <name>        Workbook sheet (default LMM_ORG_04)")
	fmt.Fprintln(w, "      --header-row <n>      Row of the column titles (default 17)")
	fmt.Fprintln(w)
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, html, chrome")
	fmt.Fprintln(w, "      --logo-dir <dir>      Directory holding logo.png")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --validity <s>        Validity date printed in the header")
	fmt.Fprintln(w, "                            \"auto\" or \"auto:FORMAT\" uses today (FORMAT: DD/MM/YYYY, iso, largo)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Chrome page load timeout (e.g., 30s)")
	fmt.Fprintln(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ficha render <id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the risk sheet of one register entry.")
	fmt.Fprintln(w, "The file is named Ficha_Riesgo_<id>.<ext> unless --output names a file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  id    Risk identifier, e.g. R-01")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (\"-\" = stdout)")
	fmt.Fprintln(w)
	printRegisterUsage(w)
	printLayoutUsage(w)
	printCommonUsage(w)
}

// printListUsage prints usage for the list command.
func printListUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ficha list [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the risk identifiers of the register, in sheet order.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -l, --long                Also print the identified risk")
	fmt.Fprintln(w)
	printRegisterUsage(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ficha serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve risk sheets over HTTP:")
	fmt.Fprintln(w, "  GET /fichas        identifiers as JSON")
	fmt.Fprintln(w, "  GET /fichas/{id}   rendered sheet as a download")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Chrome renderers (0 = auto)")
	fmt.Fprintln(w)
	printRegisterUsage(w)
	printLayoutUsage(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "list":
		printListUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ficha version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ficha help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
