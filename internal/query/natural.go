package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	wordCountRe   = regexp.MustCompile(`(\d+)\s+words?`)
	longerThanRe  = regexp.MustCompile(`longer than (\d+)`)
	shorterThanRe = regexp.MustCompile(`shorter than (\d+)`)
	atLeastRe     = regexp.MustCompile(`at least (\d+) characters?`)
	atMostRe      = regexp.MustCompile(`at most (\d+) characters?`)
	letterRe      = regexp.MustCompile(`contains? (?:the )?letter ([a-z])`)
)

// ParseNaturalLanguage maps a free-text phrase onto a Filter. It never
// fails; a phrase that matches nothing yields an empty Filter.
//
// Rules run in a fixed order and a later match overwrites a field set by an
// earlier one: "3 words" beats "single word", "at least N characters" beats
// "longer than N", "at most N characters" beats "shorter than N", and
// "first vowel" beats "letter x". No range check happens here; Resolve
// rejects min_length > max_length.
func ParseNaturalLanguage(phrase string) Filter {
	q := strings.ToLower(phrase)
	var f Filter

	if strings.Contains(q, "palindrome") || strings.Contains(q, "palindromic") {
		f.IsPalindrome = boolPtr(true)
	}

	if strings.Contains(q, "single word") {
		f.WordCount = intPtr(1)
	}

	if n, ok := matchInt(wordCountRe, q); ok {
		f.WordCount = intPtr(n)
	}

	if n, ok := matchInt(longerThanRe, q); ok && n < math.MaxInt {
		f.MinLength = intPtr(n + 1)
	}

	if n, ok := matchInt(shorterThanRe, q); ok {
		f.MaxLength = intPtr(n - 1)
	}

	if n, ok := matchInt(atLeastRe, q); ok {
		f.MinLength = intPtr(n)
	}

	if n, ok := matchInt(atMostRe, q); ok {
		f.MaxLength = intPtr(n)
	}

	if m := letterRe.FindStringSubmatch(q); m != nil {
		f.ContainsCharacter = stringPtr(m[1])
	}

	if strings.Contains(q, "first vowel") {
		f.ContainsCharacter = stringPtr("a")
	}

	return f
}

// Interpret parses phrase and keeps the original text alongside the result.
func Interpret(phrase string) Interpretation {
	return Interpretation{
		Original:      phrase,
		ParsedFilters: ParseNaturalLanguage(phrase),
	}
}

// matchInt returns the first capture group of re in s as an int.
// Digit runs too large for an int are treated as no match.
func matchInt(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
