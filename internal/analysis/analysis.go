// Package analysis computes the derived properties of a string.
//
// Every function here is pure: no I/O, no shared state, safe to call from
// any number of goroutines.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Properties is the immutable bundle derived from a value at creation time.
type Properties struct {
	// Length is the character count (runes, not bytes)
	Length int `json:"length"`

	// IsPalindrome reports whether the lower-cased, whitespace-stripped value
	// reads the same in both directions. Punctuation is kept.
	IsPalindrome bool `json:"is_palindrome"`

	// UniqueCharacters is the number of distinct characters, case-sensitive
	UniqueCharacters int `json:"unique_characters"`

	// WordCount is the number of maximal non-whitespace runs
	WordCount int `json:"word_count"`

	// SHA256Hash is the lowercase hex SHA-256 digest of the raw value bytes
	SHA256Hash string `json:"sha256_hash"`

	// CharacterFrequencyMap maps each character to its occurrence count
	CharacterFrequencyMap FrequencyMap `json:"character_frequency_map"`
}

// Analyze computes the property bundle for value. It is total over all
// strings, including the empty string.
func Analyze(value string) Properties {
	freq := Frequencies(value)
	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      freq.Len(),
		WordCount:             CountWords(value),
		SHA256Hash:            Fingerprint(value),
		CharacterFrequencyMap: freq,
	}
}

// Fingerprint returns the 64-character lowercase hex SHA-256 of value.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome lower-cases value, drops every whitespace character and
// compares the result with its reverse.
func IsPalindrome(value string) bool {
	normalized := make([]rune, 0, len(value))
	for _, r := range strings.ToLower(value) {
		if unicode.IsSpace(r) {
			continue
		}
		normalized = append(normalized, r)
	}
	for i, j := 0, len(normalized)-1; i < j; i, j = i+1, j-1 {
		if normalized[i] != normalized[j] {
			return false
		}
	}
	return true
}

// CountWords counts whitespace-separated tokens. Whitespace-only input is 0.
func CountWords(value string) int {
	return len(strings.Fields(value))
}
