package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"noc-assistant/internal/models"
)

// Generator runs one completion against the generative model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Composer renders the answer prompt from the evidence set and invokes
// the generative model. With empty evidence it short-circuits to the
// fixed cannot-answer message without any model call.
type Composer struct {
	generator Generator
}

func NewComposer(generator Generator) *Composer {
	return &Composer{generator: generator}
}

// Compose turns the question and its evidence into a structured answer.
// Provider failures propagate; cosmetic normalization never fails.
func (c *Composer) Compose(ctx context.Context, question string, evidence models.Evidence) (*models.Answer, error) {
	if len(evidence) == 0 {
		log.Info().Msg("No evidence above threshold, returning fixed answer")
		return &models.Answer{Content: models.NoEvidenceMessage}, nil
	}

	raw, err := c.generator.Generate(ctx, BuildPrompt(question, evidence))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.Answer{
		Content: NormalizeAnswer(raw),
		Sources: DedupeSources(evidence),
	}, nil
}

// BuildPrompt substitutes the evidence texts, separator-joined in score
// order, and the verbatim question into the answer template.
func BuildPrompt(question string, evidence models.Evidence) string {
	texts := make([]string, 0, len(evidence))
	for _, ev := range evidence {
		texts = append(texts, ev.Chunk.Text)
	}
	return fmt.Sprintf(models.AnswerPromptTemplate, strings.Join(texts, models.ContextSeparator), question)
}
