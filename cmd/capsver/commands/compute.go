package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/disco-protocol/disco-go/pkg/caps"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitVerification = 2
)

// ComputeOptions configures the compute command.
type ComputeOptions struct {
	Algo  string
	JSON  bool
	Input bool
	Files []string
}

// ComputeOutput represents the computed value for one document.
type ComputeOutput struct {
	Algo  string `json:"algo"`
	Ver   string `json:"ver"`
	Input string `json:"input,omitempty"`
}

// RunCompute runs the compute command.
func RunCompute(args []string, stdout, stderr io.Writer) int {
	opts, err := parseComputeArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printComputeUsage(stderr)
		return exitCommandError
	}
	if !caps.Supported(opts.Algo) {
		fmt.Fprintf(stderr, "Error: unsupported hash algorithm %q\n", opts.Algo)
		return exitCommandError
	}

	results := make(map[string]*ComputeOutput)
	for _, file := range opts.Files {
		doc, err := loadDocument(file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}

		info := doc.info()
		ver, _ := caps.VerificationValue(opts.Algo, info)
		out := &ComputeOutput{Algo: opts.Algo, Ver: ver}
		if opts.Input {
			out.Input = caps.VerificationString(info)
		}
		results[file] = out

		if !opts.JSON {
			fmt.Fprintf(stdout, "%s: %s %s\n", file, out.Algo, out.Ver)
			if opts.Input {
				fmt.Fprintf(stdout, "  input: %s\n", out.Input)
			}
		}
	}

	if opts.JSON {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(data))
	}

	return exitSuccess
}

func parseComputeArgs(args []string) (ComputeOptions, error) {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	opts := ComputeOptions{}

	fs.StringVar(&opts.Algo, "algo", "sha-1", "Hash algorithm")
	fs.StringVar(&opts.Algo, "a", "sha-1", "Hash algorithm (shorthand)")
	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.Input, "input", false, "Include the canonical input string")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

func printComputeUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: capsver compute [options] <files...>

Options:
  -a, --algo   Hash algorithm [default: sha-1]
  --json       Output results as JSON
  --input      Include the canonical input string

Examples:
  capsver compute client.yaml
  capsver compute --algo sha-256 --input client.yaml`)
}
