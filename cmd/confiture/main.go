// Command confiture is a thin demo CLI around the confiture package: it
// parses (and, with -schema wiring left to the caller, could validate) a
// configuration file and prints its tree.Section.Map() as JSON.
//
// Usage:
//
//	confiture parse   <file>    Parse a config file, report errors
//	confiture inspect <file>    Parse and print structure as JSON
//	confiture version           Show version
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/dotconf/confiture"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		cmdParse(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	case "version":
		fmt.Printf("confiture v%s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`confiture — a declarative configuration language toolkit

Usage:
  confiture parse   <file>    Parse a config file, report errors
  confiture inspect <file>    Parse and print structure as JSON
  confiture version           Show version
  confiture help               Show this message`)
}

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: confiture parse <file>")
		os.Exit(1)
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: "confiture", Level: hclog.Warn})
	if _, err := confiture.ParseFile(args[0], confiture.WithLogger(logger)); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: confiture inspect <file>")
		os.Exit(1)
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: "confiture", Level: hclog.Warn})
	section, err := confiture.ParseFile(args[0], confiture.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(section.Map()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
