package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/disco-protocol/disco-go/pkg/disco"
)

// document is the YAML shape of a disco#info document on disk.
type document struct {
	Node       string             `yaml:"node,omitempty"`
	Identities []documentIdentity `yaml:"identities"`
	Features   []string           `yaml:"features"`
	Forms      []documentForm     `yaml:"forms,omitempty"`

	// Claim is the verification value the document claims to hash to,
	// checked by the check command.
	Claim *documentClaim `yaml:"claim,omitempty"`
}

type documentIdentity struct {
	Category string `yaml:"category"`
	Type     string `yaml:"type"`
	Name     string `yaml:"name,omitempty"`
	Lang     string `yaml:"lang,omitempty"`
}

type documentForm struct {
	Namespace string          `yaml:"namespace"`
	Fields    []documentField `yaml:"fields"`
}

type documentField struct {
	Var    string   `yaml:"var"`
	Values []string `yaml:"values"`
}

type documentClaim struct {
	Algo string `yaml:"algo"`
	Ver  string `yaml:"ver"`
}

// loadDocument reads and parses a disco#info document from a YAML file.
func loadDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Identities) == 0 {
		return nil, fmt.Errorf("%s: document has no identities", path)
	}

	return &doc, nil
}

// info converts the document to a disco.Info.
func (d *document) info() *disco.Info {
	info := &disco.Info{
		Node:     d.Node,
		Features: d.Features,
	}
	for _, id := range d.Identities {
		info.Identities = append(info.Identities, disco.Identity{
			Category: id.Category,
			Type:     id.Type,
			Name:     id.Name,
			Lang:     id.Lang,
		})
	}
	for _, f := range d.Forms {
		form := disco.Form{Namespace: f.Namespace}
		for _, fld := range f.Fields {
			form.Fields = append(form.Fields, disco.Field{
				Var:    fld.Var,
				Values: fld.Values,
			})
		}
		info.Forms = append(info.Forms, form)
	}
	return info
}
