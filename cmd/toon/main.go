// toon - TOON codec CLI tool
//
// Usage:
//
//	toon encode [--compact] [file]   Read JSON, print TOON
//	toon decode [--loose] [file]     Read TOON, print JSON
//	toon savings [file]              Compare TOON vs JSON token counts
//	toon version                     Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/vade-ai/toon/toon"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	compact := false
	loose := false
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--compact":
			compact = true
		case arg == "--loose":
			loose = true
		case arg == "-h" || arg == "--help":
			printUsage()
			os.Exit(0)
		default:
			fileArg = arg
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" && fileArg != "-" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "encode":
		cmdEncode(input, compact)
	case "decode":
		cmdDecode(input, loose)
	case "savings":
		cmdSavings(input, compact)
	case "version":
		fmt.Println("toon", version)
	default:
		fmt.Fprintf(os.Stderr, "toon: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func cmdEncode(r io.Reader, compact bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.FromJSON(data, toon.DefaultNormalizeOptions())
	if err != nil {
		fatal("parse JSON: %v", err)
	}
	opts := toon.DefaultEncodeOptions()
	if compact {
		opts = toon.CompactEncodeOptions()
	}
	out, err := toon.Encode(v, opts)
	if err != nil {
		fatal("encode: %v", err)
	}
	writeColored(out + "\n")
}

func cmdDecode(r io.Reader, loose bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	opts := toon.DefaultDecodeOptions()
	opts.Strict = !loose
	v, err := toon.Decode(string(data), opts)
	if err != nil {
		fatal("decode: %v", err)
	}
	out, err := json.MarshalIndent(toon.ToAny(v), "", "  ")
	if err != nil {
		fatal("marshal JSON: %v", err)
	}
	writeColored(string(out) + "\n")
}

func cmdSavings(r io.Reader, compact bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.FromJSON(data, toon.DefaultNormalizeOptions())
	if err != nil {
		fatal("parse JSON: %v", err)
	}
	opts := toon.DefaultEncodeOptions()
	if compact {
		opts = toon.CompactEncodeOptions()
	}
	report, err := toon.Savings(v, opts)
	if err != nil {
		fatal("savings: %v", err)
	}
	writeColored(report.String() + "\n")
}

// writeColored writes s to stdout, wrapping os.Stdout with go-colorable
// so ANSI sequences render correctly on Windows consoles, but only when
// stdout is actually a terminal — piped output stays plain.
func writeColored(s string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out := colorable.NewColorableStdout()
		fmt.Fprint(out, s)
		return
	}
	fmt.Fprint(os.Stdout, s)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "toon: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: toon <command> [options] [file]

commands:
  encode [--compact] [file]   read JSON, print TOON
  decode [--loose] [file]     read TOON, print JSON
  savings [file]               compare TOON vs JSON token counts
  version                      print version info

If no file is given, reads from stdin.`)
}
