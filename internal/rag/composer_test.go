package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noc-assistant/internal/models"
)

func evidenceFixture() models.Evidence {
	return models.Evidence{
		{Chunk: models.Chunk{Text: "Vouchers are verified at shop Y.", Source: "ops.pdf", Page: 5}, Score: 0.9},
		{Chunk: models.Chunk{Text: "Escalate to the payments team.", Source: "ops.pdf", Page: 7}, Score: 0.6},
	}
}

func TestComposeNoEvidenceShortCircuit(t *testing.T) {
	generator := &fakeGenerator{response: "must not be called"}
	c := NewComposer(generator)

	answer, err := c.Compose(context.Background(), "anything", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, generator.calls)
	assert.Equal(t, models.NoEvidenceMessage, answer.Content)
	assert.Empty(t, answer.Sources)
}

func TestComposeBuildsPromptFromEvidence(t *testing.T) {
	generator := &fakeGenerator{response: "**Topic**: Vouchers"}
	c := NewComposer(generator)

	answer, err := c.Compose(context.Background(), "how are vouchers verified?", evidenceFixture())
	require.NoError(t, err)
	require.Equal(t, 1, generator.calls)

	prompt := generator.prompts[0]
	assert.Contains(t, prompt, "Vouchers are verified at shop Y.")
	assert.Contains(t, prompt, "Escalate to the payments team.")
	assert.Contains(t, prompt, models.ContextSeparator)
	assert.Contains(t, prompt, "how are vouchers verified?")
	// evidence order in the prompt follows score order
	assert.Less(t,
		strings.Index(prompt, "Vouchers are verified"),
		strings.Index(prompt, "Escalate to the payments team"))

	assert.Equal(t, "**Topic**: Vouchers", answer.Content)
}

func TestComposeReturnsEvidenceSources(t *testing.T) {
	c := NewComposer(&fakeGenerator{response: "answer"})

	answer, err := c.Compose(context.Background(), "q", evidenceFixture())
	require.NoError(t, err)

	assert.Equal(t, []models.SourceRef{
		{Source: "ops.pdf", Page: 5},
		{Source: "ops.pdf", Page: 7},
	}, answer.Sources)
}

func TestComposeDedupesSources(t *testing.T) {
	evidence := models.Evidence{
		{Chunk: models.Chunk{Text: "first chunk", Source: "manual.pdf", Page: 3}, Score: 0.9},
		{Chunk: models.Chunk{Text: "second chunk", Source: "manual.pdf", Page: 3}, Score: 0.7},
	}
	c := NewComposer(&fakeGenerator{response: "answer"})

	answer, err := c.Compose(context.Background(), "q", evidence)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "manual.pdf (Page 3)", answer.Sources[0].String())
}

func TestComposePropagatesGeneratorError(t *testing.T) {
	generator := &fakeGenerator{err: models.ErrProviderUnavailable}
	c := NewComposer(generator)

	_, err := c.Compose(context.Background(), "q", evidenceFixture())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}

func TestDedupeSourcesDefaultsPage(t *testing.T) {
	evidence := models.Evidence{
		{Chunk: models.Chunk{Text: "x", Source: "faq.pdf", Page: 0}, Score: 0.5},
	}
	refs := DedupeSources(evidence)
	require.Len(t, refs, 1)
	assert.Equal(t, "faq.pdf (Page 1)", refs[0].String())
}

func TestFormatSources(t *testing.T) {
	refs := []models.SourceRef{
		{Source: "ops.pdf", Page: 5},
		{Source: "network.pdf", Page: 2},
	}
	assert.Equal(t, "Sources:\n- ops.pdf (Page 5)\n- network.pdf (Page 2)", FormatSources(refs))
	assert.Equal(t, "No source documents found.", FormatSources(nil))
}
