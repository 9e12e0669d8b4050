package rag

import (
	"context"

	"noc-assistant/internal/config"
	"noc-assistant/internal/index"
	"noc-assistant/internal/models"
)

// Assistant is the single entry point the conversation shell calls per
// user turn: retrieve evidence, compose an answer, return it with its
// sources.
type Assistant struct {
	retriever *Retriever
	composer  *Composer
	cfg       *config.Config
}

func NewAssistant(embedder Embedder, generator Generator, idx index.Index, cfg *config.Config) *Assistant {
	return &Assistant{
		retriever: NewRetriever(embedder, idx),
		composer:  NewComposer(generator),
		cfg:       cfg,
	}
}

// AnswerQuery runs the full query pipeline with the configured k and
// score threshold. Provider failures surface to the caller, which owns
// the retry policy.
func (a *Assistant) AnswerQuery(ctx context.Context, question string) (*models.Answer, error) {
	evidence, err := a.retriever.Retrieve(ctx, question, a.cfg.RetrievalK, a.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	return a.composer.Compose(ctx, question, evidence)
}
