// Package strutil holds the text and identifier normalization helpers shared
// by every vendor parser. All functions are pure and never fail: bad input
// falls through unchanged or collapses to a zero value.
package strutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	reTagOrQuote = regexp.MustCompile(`<[^>]+>|['"]`)
	reNonDigit   = regexp.MustCompile(`[^0-9]+`)
	reNonSlug    = regexp.MustCompile(`[^\w\s-]`)
	reSeparators = regexp.MustCompile(`[\s_-]+`)
	reEdgeDashes = regexp.MustCompile(`^-+|-+$`)
)

// CleanHTML strips tags and quote characters, folds accented letters down to
// plain ASCII and upper-cases the result. Empty input passes through.
func CleanHTML(raw string) string {
	if raw == "" {
		return raw
	}
	s := reTagOrQuote.ReplaceAllString(raw, "")
	s = asciiFold(s)
	return strings.ToUpper(strings.TrimSpace(s))
}

// CleanEAN keeps only digit characters and parses them as an integer barcode.
// Anything without digits, including the empty string, maps to 0.
func CleanEAN(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatZipCode inserts the Brazilian CEP hyphen (01234-567) only when the
// input is exactly 8 characters long.
func FormatZipCode(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[0:5] + "-" + s[5:8]
}

// Slug lowercases, drops everything outside word/space/hyphen characters and
// collapses runs of separators into a single hyphen.
func Slug(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = reNonSlug.ReplaceAllString(out, "")
	out = reSeparators.ReplaceAllString(out, "-")
	return reEdgeDashes.ReplaceAllString(out, "")
}

// CheckSubdomain normalizes a storefront domain into an Origin URL, adding a
// www prefix for bare second-level domains the way browsers send it.
func CheckSubdomain(domain string) string {
	host := strings.ReplaceAll(domain, "https://", "")
	host = strings.ReplaceAll(host, "http://", "")

	parts := strings.Split(host, ".")
	if len(parts) > 3 || len(parts) == 1 {
		return "https://" + host
	}
	return "https://www." + host
}

// asciiFold approximates unicode NFKD + ascii encode: decomposable latin
// letters lose their diacritics, everything else non-ASCII is dropped.
func asciiFold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
			continue
		}
		if folded, ok := latinFold[r]; ok {
			b.WriteRune(folded)
		}
	}
	return b.String()
}

// latinFold covers the accented forms that show up in pt-BR catalog text.
var latinFold = buildLatinFold()

func buildLatinFold() map[rune]rune {
	m := make(map[rune]rune, 128)
	add := func(base rune, variants string) {
		for _, v := range variants {
			m[v] = base
			m[unicode.ToUpper(v)] = unicode.ToUpper(base)
		}
	}
	add('a', "áàâãäå")
	add('e', "éèêë")
	add('i', "íìîï")
	add('o', "óòôõö")
	add('u', "úùûü")
	add('c', "ç")
	add('n', "ñ")
	add('y', "ýÿ")
	return m
}
