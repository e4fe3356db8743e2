package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentTextExtractor pulls plain text out of an uploaded document.
// An empty extraction is an error: a document without text can never be
// scored and must abort the run before any embedding work begins.
type DocumentTextExtractor interface {
	Extract(filePath string) (string, error)
}

type pdfTextExtractor struct{}

func NewPDFTextExtractor() DocumentTextExtractor {
	return &pdfTextExtractor{}
}

func (p *pdfTextExtractor) Extract(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: file does not exist: %s", ErrTextExtraction, filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF %s: %v", ErrTextExtraction, filePath, err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, the emptiness check below catches
			// documents where nothing could be read at all.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrTextExtraction, filePath)
	}

	return text, nil
}
