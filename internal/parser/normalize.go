package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Substitution repairs a known extraction artifact. The table is data,
// not logic: the defaults cover tokenization splits seen in the NOC
// manuals and can be replaced wholesale via SUBSTITUTIONS_FILE.
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type substitutionsFile struct {
	Substitutions []Substitution `yaml:"substitutions"`
}

// DefaultSubstitutions returns the built-in artifact repair table.
func DefaultSubstitutions() []Substitution {
	return []Substitution{
		{From: "fr om", To: "from"},
		{From: "T eam", To: "Team"},
		{From: "ar e", To: "are"},
		{From: "pr o", To: "pro"},
	}
}

// LoadSubstitutions reads a substitution table from a YAML file.
func LoadSubstitutions(path string) ([]Substitution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading substitutions file: %w", err)
	}
	var f substitutionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing substitutions file: %w", err)
	}
	return f.Substitutions, nil
}

var (
	spaceRunRe    = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlinePadRe  = regexp.MustCompile(` *\n *`)
	newlineRunRe  = regexp.MustCompile(`\n{2,}`)
	nonBreakSpace = " "
)

// Normalizer cleans extracted text before chunking and embedding.
type Normalizer struct {
	subs []Substitution
}

// NewNormalizer builds a normalizer; nil subs means the default table.
func NewNormalizer(subs []Substitution) *Normalizer {
	if subs == nil {
		subs = DefaultSubstitutions()
	}
	return &Normalizer{subs: subs}
}

// Normalize collapses whitespace runs to single spaces, strips
// non-breaking spaces, collapses repeated newlines and applies the
// substitution table.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ReplaceAll(text, nonBreakSpace, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlinePadRe.ReplaceAllString(text, "\n")
	text = newlineRunRe.ReplaceAllString(text, "\n")
	for _, s := range n.subs {
		text = strings.ReplaceAll(text, s.From, s.To)
	}
	return strings.TrimSpace(text)
}
