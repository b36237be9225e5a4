package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/disco-protocol/disco-go/pkg/caps"
)

// CheckOptions configures the check command.
type CheckOptions struct {
	JSON  bool
	Files []string
}

// CheckOutput represents the check result for one document.
type CheckOutput struct {
	Match    bool   `json:"match"`
	Algo     string `json:"algo,omitempty"`
	Claimed  string `json:"claimed,omitempty"`
	Computed string `json:"computed,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RunCheck runs the check command. It recomputes each document's
// verification value and compares it against the document's claim.
func RunCheck(args []string, stdout, stderr io.Writer) int {
	opts, err := parseCheckArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printCheckUsage(stderr)
		return exitCommandError
	}

	hasMismatch := false
	results := make(map[string]*CheckOutput)

	for _, file := range opts.Files {
		result := checkFile(file)
		results[file] = result

		if !result.Match {
			hasMismatch = true
		}

		if !opts.JSON {
			printCheckResult(stdout, file, result)
		}
	}

	if opts.JSON {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(data))
	}

	if hasMismatch {
		return exitVerification
	}
	return exitSuccess
}

func checkFile(file string) *CheckOutput {
	doc, err := loadDocument(file)
	if err != nil {
		return &CheckOutput{Error: err.Error()}
	}
	if doc.Claim == nil {
		return &CheckOutput{Error: "document carries no claim"}
	}

	computed, ok := caps.VerificationValue(doc.Claim.Algo, doc.info())
	if !ok {
		return &CheckOutput{
			Algo:    doc.Claim.Algo,
			Claimed: doc.Claim.Ver,
			Error:   fmt.Sprintf("unsupported hash algorithm %q", doc.Claim.Algo),
		}
	}

	return &CheckOutput{
		Match:    computed == doc.Claim.Ver,
		Algo:     doc.Claim.Algo,
		Claimed:  doc.Claim.Ver,
		Computed: computed,
	}
}

func printCheckResult(w io.Writer, file string, result *CheckOutput) {
	switch {
	case result.Error != "":
		fmt.Fprintf(w, "%s: ERROR %s\n", file, result.Error)
	case result.Match:
		fmt.Fprintf(w, "%s: OK %s %s\n", file, result.Algo, result.Claimed)
	default:
		fmt.Fprintf(w, "%s: MISMATCH claimed %s, computed %s\n", file, result.Claimed, result.Computed)
	}
}

func parseCheckArgs(args []string) (CheckOptions, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	opts := CheckOptions{}

	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: capsver check [options] <files...>

Options:
  --json   Output results as JSON

Examples:
  capsver check client.yaml
  capsver check --json *.yaml`)
}
