// Package file provides header-row detection, column-mapping remembered by
// file fingerprint, and CSV/XLSX row extraction.
package file

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"strings"
	"unicode"
)

// headerKeywords is the curated token set used to score a candidate header row.
var headerKeywords = map[string]bool{
	"date": true, "txn": true, "transaction": true, "description": true,
	"desc": true, "particulars": true, "narration": true, "amount": true,
	"debit": true, "credit": true, "dr": true, "cr": true, "balance": true,
	"ref": true, "reference": true, "value": true, "withdrawal": true, "deposit": true,
}

const maxAnalyzeRows = 30

// AnalyzeResult is Analyze's output.
type AnalyzeResult struct {
	HeaderRowIndex int
	Headers        []string
	Fingerprint    string
	Preview        []map[string]string
}

// Analyze scores the first maxAnalyzeRows rows of a CSV/TSV table against the
// header-keyword set and returns the best-scoring row as the header.
func Analyze(rows [][]string) *AnalyzeResult {
	limit := len(rows)
	if limit > maxAnalyzeRows {
		limit = maxAnalyzeRows
	}

	bestIdx := 0
	bestScore := -1
	for i := 0; i < limit; i++ {
		score := scoreRow(rows[i])
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore < 1 {
		bestIdx = 0
	}

	headers := []string{}
	if bestIdx < len(rows) {
		headers = cleanRow(rows[bestIdx])
	}

	preview := buildPreview(rows, bestIdx, headers, 5)

	return &AnalyzeResult{
		HeaderRowIndex: bestIdx,
		Headers:        headers,
		Fingerprint:    Fingerprint(headers),
		Preview:        preview,
	}
}

// scoreRow counts tokens intersecting headerKeywords, with +1 bonus each for
// a "date" and an "amount"/"debit" substring match.
func scoreRow(row []string) int {
	score := 0
	for _, cell := range row {
		tok := strings.ToLower(strings.TrimSpace(cell))
		if tok == "" {
			continue
		}
		if headerKeywords[tok] {
			score++
		}
		if strings.Contains(tok, "date") {
			score++
		}
		if strings.Contains(tok, "amount") || strings.Contains(tok, "debit") {
			score++
		}
	}
	return score
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func buildPreview(rows [][]string, headerIdx int, headers []string, n int) []map[string]string {
	var preview []map[string]string
	for i := headerIdx + 1; i < len(rows) && len(preview) < n; i++ {
		row := rows[i]
		obj := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(row) {
				obj[h] = strings.TrimSpace(row[j])
			}
		}
		preview = append(preview, obj)
	}
	return preview
}

// Fingerprint generates a stable hash of normalized header names, used as the
// FileParsingConfig lookup key so a recurring file shape's column mapping can
// be remembered across uploads.
func Fingerprint(headers []string) string {
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}
	joined := strings.Join(normalized, "|")
	hash := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(hash[:])
}

// sniffDelimiter picks the candidate delimiter that yields the most columns in
// any single row of sample, trying the common candidates in order; on a tie
// the earlier candidate is kept.
func sniffDelimiter(sample string) rune {
	delimiters := []rune{',', ';', '\t', '|'}
	best := ','
	bestCount := -1
	lines := strings.SplitN(sample, "\n", 6)
	for _, d := range delimiters {
		r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		r.Comma = d
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		count := 0
		for {
			rec, err := r.Read()
			if err != nil {
				break
			}
			if len(rec) > count {
				count = len(rec)
			}
		}
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}
