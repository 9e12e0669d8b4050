package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"noc-assistant/internal/config"
	"noc-assistant/internal/models"
)

const defaultPageNumber = 1

// pageText is raw extracted text attributed to one page, sheet or slide.
type pageText struct {
	Text string
	Page int
}

// Parser turns document files into normalized, bounded, overlapping chunks.
type Parser struct {
	cfg  *config.Config
	norm *Normalizer
}

// New builds a parser from the configuration, loading the substitution
// table from SUBSTITUTIONS_FILE when set.
func New(cfg *config.Config) (*Parser, error) {
	subs := DefaultSubstitutions()
	if cfg.SubstitutionsFile != "" {
		loaded, err := LoadSubstitutions(cfg.SubstitutionsFile)
		if err != nil {
			return nil, err
		}
		subs = loaded
	}
	return &Parser{cfg: cfg, norm: NewNormalizer(subs)}, nil
}

var supportedExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".xlsx": true,
	".ods":  true,
	".md":   true,
	".txt":  true,
}

// IngestDir walks dir recursively and parses every supported document,
// in lexical file order so repeated runs over unchanged content produce
// identical chunk sequences. A file that fails to parse is logged and
// skipped; a missing directory is models.ErrNotFound.
func (p *Parser) IngestDir(dir string) ([]models.Chunk, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("documents directory %s: %w", dir, models.ErrNotFound)
	}

	var chunks []models.Chunk
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		fileChunks, err := p.ParseFile(path)
		if err != nil {
			log.Error().Err(err).Msgf("Error parsing %s", path)
			return nil
		}
		chunks = append(chunks, fileChunks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// ParseFile extracts, normalizes and chunks a single document.
func (p *Parser) ParseFile(path string) ([]models.Chunk, error) {
	pages, err := extractPages(path)
	if err != nil {
		return nil, err
	}
	return p.chunkPages(filepath.Base(path), pages), nil
}

func (p *Parser) chunkPages(source string, pages []pageText) []models.Chunk {
	var chunks []models.Chunk
	for _, page := range pages {
		text := p.norm.Normalize(page.Text)
		if text == "" {
			continue
		}
		for i, chunkString := range chunkText(text, p.cfg.ChunkSize, p.cfg.ChunkOverlap) {
			chunks = append(chunks, models.Chunk{
				Text:    chunkString,
				Source:  source,
				Page:    page.Page,
				ChunkID: i + 1,
			})
		}
	}
	return chunks
}

func extractPages(path string) ([]pageText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".pptx":
		return extractPPTX(path)
	case ".xlsx":
		return extractXLSX(path)
	case ".ods":
		return extractODS(path)
	case ".md":
		return extractMarkdown(path)
	case ".txt":
		return extractText(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func extractPDF(path string) ([]pageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []pageText
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		pages = append(pages, pageText{Text: text, Page: i})
	}
	return pages, nil
}

var xmlTagRe = regexp.MustCompile(`<[^>]*>`)

func extractDOCX(path string) ([]pageText, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// DOCX has no page numbers; the whole body maps to page 1.
	content := xmlTagRe.ReplaceAllString(r.Editable().GetContent(), " ")
	return []pageText{{Text: content, Page: defaultPageNumber}}, nil
}

func extractPPTX(path string) ([]pageText, error) {
	f, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var slideNames []string
	byName := make(map[string]*zip.File)
	for _, file := range f.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slideNames = append(slideNames, file.Name)
			byName[file.Name] = file
		}
	}
	sort.Strings(slideNames)

	var pages []pageText
	for slideNum, name := range slideNames {
		rc, err := byName[name].Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		pages = append(pages, pageText{
			Text: extractTextFromXML(string(data)),
			Page: slideNum + 1,
		})
	}
	return pages, nil
}

func extractXLSX(path string) ([]pageText, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}

	var pages []pageText
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, pageText{Text: text.String(), Page: sheetNum + 1})
	}
	return pages, nil
}

func extractODS(path string) ([]pageText, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []pageText
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, pageText{Text: text.String(), Page: sheetNum + 1})
	}
	return pages, nil
}

func extractMarkdown(path string) ([]pageText, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var buf bytes.Buffer
	err = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*gmast.Text); ok {
				buf.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
			return gmast.WalkContinue, nil
		}
		if n.Type() == gmast.TypeBlock {
			buf.WriteByte('\n')
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return []pageText{{Text: buf.String(), Page: defaultPageNumber}}, nil
}

func extractText(path string) ([]pageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []pageText{{Text: string(data), Page: defaultPageNumber}}, nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}
