package normalize

import (
	"regexp"
	"strings"
)

// MerchantAlias mirrors the persisted store.MerchantAlias entity.
type MerchantAlias struct {
	Pattern string
	Alias   string
}

var commonPrefixes = regexp.MustCompile(`(?i)^(UPI-|POS-|ATM-)`)

// ResolveMerchant scans the operator-managed alias table for a case-insensitive
// substring/regex match against text; if none match, it strips common prefixes
// and title-cases the result.
func ResolveMerchant(text string, aliases []MerchantAlias) string {
	upper := strings.ToUpper(text)
	for _, a := range aliases {
		if a.Pattern == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + a.Pattern); err == nil {
			if re.MatchString(text) {
				return a.Alias
			}
			continue
		}
		if strings.Contains(upper, strings.ToUpper(a.Pattern)) {
			return a.Alias
		}
	}

	cleaned := commonPrefixes.ReplaceAllString(text, "")
	return titleCase(cleaned)
}

func titleCase(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		if f == "" {
			continue
		}
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}
