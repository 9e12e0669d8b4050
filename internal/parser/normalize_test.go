package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	norm := NewNormalizer(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses space runs",
			input: "the   quick \t brown    fox",
			want:  "the quick brown fox",
		},
		{
			name:  "strips non-breaking spaces",
			input: "before after",
			want:  "before after",
		},
		{
			name:  "collapses repeated newlines",
			input: "line one\n\n\n\nline two",
			want:  "line one\nline two",
		},
		{
			name:  "trims padding around newlines",
			input: "line one   \n   line two",
			want:  "line one\nline two",
		},
		{
			name:  "repairs extraction artifacts",
			input: "escalate fr om the NOC T eam",
			want:  "escalate from the NOC Team",
		},
		{
			name:  "trims leading and trailing whitespace",
			input: "  \n padded \n ",
			want:  "padded",
		},
		{
			name:  "empty input",
			input: "   \n\n  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, norm.Normalize(tt.input))
		})
	}
}

func TestNormalizeCustomSubstitutions(t *testing.T) {
	norm := NewNormalizer([]Substitution{{From: "N0C", To: "NOC"}})

	assert.Equal(t, "NOC escalation", norm.Normalize("N0C escalation"))
	// defaults are replaced, not merged
	assert.Equal(t, "fr om", norm.Normalize("fr om"))
}

func TestLoadSubstitutions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subs.yaml")
	content := "substitutions:\n  - from: \"ro uter\"\n    to: \"router\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	subs, err := LoadSubstitutions(path)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "ro uter", subs[0].From)
	assert.Equal(t, "router", subs[0].To)
}

func TestLoadSubstitutionsMissingFile(t *testing.T) {
	_, err := LoadSubstitutions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
