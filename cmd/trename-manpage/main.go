// trename-manpage writes man pages for the trename command tree: the root
// page to stdout, or one page per command into the directory given as the
// only argument.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/trename/cmd/trename"
	"github.com/arthur-debert/trename/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rootCmd := trename.NewRootCmd()
	header := &doc.GenManHeader{
		Title:   "TRENAME",
		Section: "1",
		Source:  "trename " + version.Version,
		Manual:  "trename manual",
	}

	switch len(args) {
	case 0:
		return doc.GenMan(rootCmd, header, os.Stdout)
	case 1:
		if err := os.MkdirAll(args[0], 0755); err != nil {
			return err
		}
		return doc.GenManTree(rootCmd, header, args[0])
	default:
		return fmt.Errorf("usage: %s [output-dir]", os.Args[0])
	}
}
