package rag

import (
	"strings"

	"noc-assistant/internal/models"
)

// DedupeSources collapses the evidence chunks into unique source
// references. Order follows first appearance, not score, once duplicate
// filename+page pairs are removed.
func DedupeSources(evidence models.Evidence) []models.SourceRef {
	seen := make(map[models.SourceRef]struct{}, len(evidence))
	var refs []models.SourceRef
	for _, ev := range evidence {
		ref := models.SourceRef{Source: ev.Chunk.Source, Page: ev.Chunk.Page}
		if ref.Page <= 0 {
			ref.Page = 1
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// FormatSources renders the source list for display.
func FormatSources(refs []models.SourceRef) string {
	if len(refs) == 0 {
		return "No source documents found."
	}
	lines := make([]string, 0, len(refs)+1)
	lines = append(lines, "Sources:")
	for _, ref := range refs {
		lines = append(lines, "- "+ref.String())
	}
	return strings.Join(lines, "\n")
}
