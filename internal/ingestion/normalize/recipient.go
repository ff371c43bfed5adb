// Package normalize provides recipient extraction from noisy narration,
// merchant alias resolution, and payment-rail / known-merchant hinting.
package normalize

import (
	"regexp"
	"strings"
)

var (
	railPrefix   = regexp.MustCompile(`(?i)^(UPI|IMPS|NEFT|RTGS)[-/]`)
	salaryRegex  = regexp.MustCompile(`(?i)(?:^|\d{5,})(SALARY.*)`)
	posAtmRegex  = regexp.MustCompile(`(?i)(?:POS|ATM|WDL|CARD|PURCHASE|SHOPPING|ECOM)(?:\s+|-|/)([^ 0-9/-][^0-9/-]*)`)
	handleSuffix = regexp.MustCompile(`@[a-zA-Z0-9.]+$`)
	trailingDigits = regexp.MustCompile(`-\d+$`)
	pureDigits   = regexp.MustCompile(`^\d+$`)
	maskedXs     = regexp.MustCompile(`^[xX*]+\d*$`)
)

var junkWords = map[string]bool{
	"DR": true, "CR": true, "TO": true, "BY": true, "FROM": true,
	"IB": true, "SS": true, "UPI": true, "IMPS": true,
}

var titles = []string{"MR", "MRS", "MS", "DR", "PROF"}

// fallbackNoise is the fixed noise-word set for the word-based fallback path.
var fallbackNoise = map[string]bool{
	"TO": true, "FROM": true, "BY": true, "VIA": true, "AT": true, "ON": true,
	"FOR": true, "THE": true, "AND": true, "A/C": true, "AC": true, "TRANSFER": true,
	"FUNDS": true, "PAYMENT": true, "TXN": true, "REF": true,
}

const maxRecipientLen = 100

// ExtractRecipient derives a clean counterparty name from a raw narration
// fragment. It is idempotent: ExtractRecipient(ExtractRecipient(x)) == ExtractRecipient(x).
func ExtractRecipient(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if railPrefix.MatchString(s) {
		body := railPrefix.ReplaceAllString(s, "")
		if rec := firstNonJunkSegment(body); rec != "" {
			return finalize(rec)
		}
	}

	if m := salaryRegex.FindStringSubmatch(s); m != nil {
		return finalize(m[1])
	}

	if m := posAtmRegex.FindStringSubmatch(s); m != nil {
		return finalize(m[1])
	}

	return finalize(fallbackWords(s))
}

// firstNonJunkSegment splits on '-' or '/' and returns the first segment that
// isn't a masked card number, a long numeric ID, or a transfer-direction word.
func firstNonJunkSegment(s string) string {
	segments := regexp.MustCompile(`[-/]`).Split(s, -1)
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || isJunk(seg) {
			continue
		}
		return seg
	}
	return ""
}

func isJunk(seg string) bool {
	upper := strings.ToUpper(seg)
	if len(seg) < 3 {
		return true
	}
	if maskedXs.MatchString(seg) {
		return true
	}
	if pureDigits.MatchString(seg) && len(seg) >= 7 {
		return true
	}
	if junkWords[upper] {
		return true
	}
	return false
}

// fallbackWords drops digit-bearing and noise tokens and keeps the first
// three surviving tokens.
func fallbackWords(s string) string {
	fields := strings.Fields(s)
	var kept []string
	for _, f := range fields {
		clean := strings.Trim(f, ".,;:")
		if clean == "" {
			continue
		}
		if containsDigit(clean) {
			continue
		}
		if fallbackNoise[strings.ToUpper(clean)] {
			continue
		}
		kept = append(kept, clean)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// finalize strips a leading title, a trailing @handle, and a trailing
// -<digits> suffix, then caps the result to 100 characters.
func finalize(s string) string {
	s = strings.TrimSpace(s)
	s = handleSuffix.ReplaceAllString(s, "")
	s = trailingDigits.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	fields := strings.Fields(s)
	if len(fields) > 0 {
		first := strings.ToUpper(strings.Trim(fields[0], "."))
		for _, t := range titles {
			if first == t {
				fields = fields[1:]
				break
			}
		}
	}
	s = strings.TrimSpace(strings.Join(fields, " "))

	if len(s) > maxRecipientLen {
		s = s[:maxRecipientLen]
	}
	return s
}
