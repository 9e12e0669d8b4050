package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"noc-assistant/internal/models"
)

// ProcessedDocument is the optional JSON intermediate decoupling
// extraction from indexing. One file per source document.
type ProcessedDocument struct {
	Metadata ProcessedMetadata  `json:"metadata"`
	Content  []ProcessedContent `json:"content"`
}

type ProcessedMetadata struct {
	Source   string `json:"source"`
	Filename string `json:"filename"`
}

type ProcessedContent struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	PageNumber *int   `json:"page_number"`
}

// ProcessFileToJSON extracts a document into the JSON intermediate form.
// Text is kept raw; normalization happens when the intermediate is
// loaded for indexing.
func (p *Parser) ProcessFileToJSON(path string) (*ProcessedDocument, error) {
	pages, err := extractPages(path)
	if err != nil {
		return nil, err
	}

	doc := &ProcessedDocument{
		Metadata: ProcessedMetadata{
			Source:   path,
			Filename: filepath.Base(path),
		},
	}
	for _, page := range pages {
		pageNum := page.Page
		doc.Content = append(doc.Content, ProcessedContent{
			Type:       "Text",
			Text:       page.Text,
			PageNumber: &pageNum,
		})
	}
	return doc, nil
}

// ExportProcessedDir extracts every supported document under dir into
// one JSON file per document under outDir.
func (p *Parser) ExportProcessedDir(dir, outDir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("documents directory %s: %w", dir, models.ErrNotFound)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := p.ProcessFileToJSON(path)
		if err != nil {
			log.Error().Err(err).Msgf("Error processing %s", path)
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, stem+".json"), data, 0o644); err != nil {
			return err
		}
		log.Info().Msgf("Processed %s", entry.Name())
	}
	return nil
}

// LoadProcessed reads JSON intermediates from dir and produces chunks,
// applying the same normalization and windowing as direct ingestion.
func (p *Parser) LoadProcessed(dir string) ([]models.Chunk, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("processed data directory %s: %w", dir, models.ErrNotFound)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var chunks []models.Chunk
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var doc ProcessedDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		var pages []pageText
		for _, item := range doc.Content {
			page := defaultPageNumber
			if item.PageNumber != nil {
				page = *item.PageNumber
			}
			pages = append(pages, pageText{Text: item.Text, Page: page})
		}
		chunks = append(chunks, p.chunkPages(doc.Metadata.Filename, pages)...)
	}
	return chunks, nil
}
