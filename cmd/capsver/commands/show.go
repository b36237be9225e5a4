package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/disco-protocol/disco-go/pkg/caps"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Format string // text, json, yaml
	File   string
}

// ShowOutput represents a document for display.
type ShowOutput struct {
	File       string             `json:"file" yaml:"file"`
	Node       string             `json:"node,omitempty" yaml:"node,omitempty"`
	Identities []documentIdentity `json:"identities" yaml:"identities"`
	Features   []string           `json:"features" yaml:"features"`
	Forms      []documentForm     `json:"forms,omitempty" yaml:"forms,omitempty"`
	Claim      *documentClaim     `json:"claim,omitempty" yaml:"claim,omitempty"`
	Input      string             `json:"input" yaml:"input"`
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parseShowArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: no file specified")
		printShowUsage(stderr)
		return exitCommandError
	}

	doc, err := loadDocument(opts.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	output := ShowOutput{
		File:       opts.File,
		Node:       doc.Node,
		Identities: doc.Identities,
		Features:   doc.Features,
		Forms:      doc.Forms,
		Claim:      doc.Claim,
		Input:      caps.VerificationString(doc.info()),
	}

	switch opts.Format {
	case "json":
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(data))
	case "yaml":
		data, _ := yaml.Marshal(output)
		fmt.Fprintln(stdout, string(data))
	default:
		printShowText(stdout, output)
	}

	return exitSuccess
}

func printShowText(w io.Writer, output ShowOutput) {
	fmt.Fprintf(w, "File: %s\n", output.File)
	if output.Node != "" {
		fmt.Fprintf(w, "Node: %s\n", output.Node)
	}

	fmt.Fprintln(w, "\nIdentities:")
	for _, id := range output.Identities {
		line := fmt.Sprintf("  %s/%s", id.Category, id.Type)
		if id.Lang != "" {
			line += fmt.Sprintf(" [%s]", id.Lang)
		}
		if id.Name != "" {
			line += " " + id.Name
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "\nFeatures:")
	for _, f := range output.Features {
		fmt.Fprintf(w, "  %s\n", f)
	}

	for _, form := range output.Forms {
		fmt.Fprintf(w, "\nForm (%s):\n", form.Namespace)
		for _, fld := range form.Fields {
			fmt.Fprintf(w, "  %s = %v\n", fld.Var, fld.Values)
		}
	}

	if output.Claim != nil {
		fmt.Fprintf(w, "\nClaim: %s %s\n", output.Claim.Algo, output.Claim.Ver)
	}
	fmt.Fprintf(w, "\nInput: %s\n", output.Input)
}

func parseShowArgs(args []string) (ShowOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := ShowOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.File = remaining[0]
	}

	return opts, nil
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: capsver show [options] <file>

Options:
  -f, --format   Output format (text, json, yaml) [default: text]

Examples:
  capsver show client.yaml
  capsver show --format json client.yaml`)
}
