// Command binarybay is a small helper around generated binarybay output.
//
// binarybay has no schema-file command: the schema is a Go program written
// against pkg/graph, not a file this CLI parses. What's left for a CLI to do
// once the schema *is* Go code is format and sanity-check the code that
// schema program produced.
//
// Usage:
//
//	binarybay format [-w] <file.go>...
//	binarybay validate <file.go>...
//	binarybay version
//
// Format Command:
//
//	Run the generated file through gofmt, printing the result to stdout
//	unless -w is given.
//
// Validate Command:
//
//	Parse each file with go/parser and report syntax errors, catching a
//	malformed Schema.Generate() output before it reaches `go build`.
package main

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"github.com/blockberries/binarybay/pkg/graph"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "format", "fmt", "f":
		cmdFormat(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`binarybay — helper for binarybay-generated Go code

Usage:
  binarybay <command> [options] <files>...

Commands:
  format      gofmt generated .go files
  validate    parse generated .go files and report syntax errors
  version     print version information
  help        print this help message`)
}

func cmdFormat(args []string) {
	write := false
	var files []string
	for _, a := range args {
		if a == "-w" {
			write = true
			continue
		}
		files = append(files, a)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		os.Exit(1)
	}

	hasErrors := false
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}
		out, err := format.Source(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}
		if write {
			if err := os.WriteFile(path, out, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		} else {
			os.Stdout.Write(out)
		}
	}
	if hasErrors {
		os.Exit(1)
	}
}

func cmdValidate(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		os.Exit(1)
	}
	hasErrors := false
	fset := token.NewFileSet()
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}
		if _, err := parser.ParseFile(fset, path, src, parser.AllErrors); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			hasErrors = true
			continue
		}
		fmt.Printf("%s: OK\n", path)
	}
	if hasErrors {
		os.Exit(1)
	}
}

func cmdVersion() {
	fmt.Printf("binarybay version %s\n", graph.VersionInfo())
}
