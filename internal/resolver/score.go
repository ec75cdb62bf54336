package resolver

import (
	"strings"
	"unicode"
)

// similarity scores how closely a candidate title matches the query.
// Both inputs are compared in their comparison-normalized forms. Scores:
// 1.0 exact, ~0.8-0.95 prefix, ~0.7-0.85 substring, otherwise a bigram
// coefficient in [0, 1).
func similarity(query, title string) float64 {
	if query == "" || title == "" {
		return 0
	}
	if query == title {
		return 1
	}

	shorter, longer := query, title
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	lengthRatio := float64(len(shorter)) / float64(len(longer))

	if strings.HasPrefix(longer, shorter) {
		return 0.80 + 0.15*lengthRatio
	}
	if strings.Contains(longer, shorter) {
		return 0.70 + 0.15*lengthRatio
	}
	return diceCoefficient(query, title)
}

// diceCoefficient computes the Sorensen-Dice coefficient over character
// bigrams. It tolerates transpositions and small typos better than a
// raw prefix test.
func diceCoefficient(a, b string) float64 {
	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0
	}
	counts := make(map[string]int, len(aBigrams))
	for _, gram := range aBigrams {
		counts[gram]++
	}
	overlap := 0
	for _, gram := range bBigrams {
		if counts[gram] > 0 {
			counts[gram]--
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(aBigrams)+len(bBigrams))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}

// normalizeForComparison strips everything but letters and digits so
// punctuation and spacing differences never break a match.
func normalizeForComparison(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "&", "and")
	normalized = strings.ReplaceAll(normalized, "+", "and")

	var builder strings.Builder
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
