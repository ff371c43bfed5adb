// Package cas decrypts and reads a consolidated account statement PDF
// (CAMS/KFintech mutual-fund statements) into a flat list of folio/scheme
// transactions. It parses the folio/scheme/transaction line grammar
// directly over text extracted with github.com/ledongthuc/pdf, since no
// dedicated CAS-parsing library exists for Go.
package cas

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// extractText runs the fast whole-document text extraction path.
func extractText(data []byte, password string) (string, error) {
	r, err := openReader(data, password)
	if err != nil {
		return "", err
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("cas: extract plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("cas: read extracted text: %w", err)
	}
	return buf.String(), nil
}

// extractTextPerPage is the more expensive rendering path, reconstructing
// each page's lines from its positioned text operators rather than relying
// on GetPlainText's whole-document reflow; statements whose columns confuse
// the fast path (common with the dense numeric tables CAS statements use)
// are recovered more reliably this way.
func extractTextPerPage(data []byte, password string) (string, error) {
	r, err := openReader(data, password)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var lineWords []string
			for _, word := range row.Content {
				lineWords = append(lineWords, word.S)
			}
			sb.WriteString(strings.Join(lineWords, " "))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func openReader(data []byte, password string) (*pdf.Reader, error) {
	size := int64(len(data))
	ra := bytes.NewReader(data)
	if password != "" {
		r, err := pdf.NewReaderEncrypted(ra, size, func() string { return password })
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
		}
		return r, nil
	}
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("cas: open pdf: %w", err)
	}
	return r, nil
}
