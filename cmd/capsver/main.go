// capsver is a CLI tool for computing and checking entity capability
// verification values from disco#info documents.
package main

import (
	"fmt"
	"os"

	"github.com/disco-protocol/disco-go/cmd/capsver/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "compute":
		exitCode = commands.RunCompute(args, os.Stdout, os.Stderr)
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("capsver version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`capsver - entity capability verification tool

Usage:
  capsver <command> [options] [files...]

Commands:
  compute    Compute verification values for disco#info documents
  check      Check claimed verification values against the documents
  show       Display a disco#info document and its canonical input

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  capsver compute client.yaml
  capsver compute --algo sha-256 client.yaml
  capsver check --json *.yaml
  capsver show --format json client.yaml

For command-specific help, run:
  capsver <command> --help`)
}
