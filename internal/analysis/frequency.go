package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CharCount is one entry of a FrequencyMap.
type CharCount struct {
	Char  string
	Count int
}

// FrequencyMap is an ordered character -> count association. Entries keep
// the order in which each character first appears in the analyzed value, so
// the JSON object form is deterministic.
type FrequencyMap struct {
	entries []CharCount
	index   map[string]int
}

// Frequencies counts every character of value, case-sensitive, including
// whitespace and punctuation.
func Frequencies(value string) FrequencyMap {
	var m FrequencyMap
	for _, r := range value {
		m.Add(string(r), 1)
	}
	return m
}

// Add increases the count for char by n, appending it if new.
func (m *FrequencyMap) Add(char string, n int) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[char]; ok {
		m.entries[i].Count += n
		return
	}
	m.index[char] = len(m.entries)
	m.entries = append(m.entries, CharCount{Char: char, Count: n})
}

// Get returns the count for char and whether it is present.
func (m FrequencyMap) Get(char string) (int, bool) {
	i, ok := m.index[char]
	if !ok {
		return 0, false
	}
	return m.entries[i].Count, true
}

// Len returns the number of distinct characters.
func (m FrequencyMap) Len() int {
	return len(m.entries)
}

// Total returns the sum of all counts.
func (m FrequencyMap) Total() int {
	total := 0
	for _, e := range m.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in first-occurrence order.
func (m FrequencyMap) Entries() []CharCount {
	out := make([]CharCount, len(m.entries))
	copy(out, m.entries)
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m FrequencyMap) Equal(other FrequencyMap) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i, e := range m.entries {
		if other.entries[i] != e {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as a JSON object, keys in entry order.
func (m FrequencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Char)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (m *FrequencyMap) UnmarshalJSON(data []byte) error {
	*m = FrequencyMap{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("character_frequency_map: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("character_frequency_map: expected string key")
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("character_frequency_map[%q]: %w", key, err)
		}
		m.Add(key, count)
	}
	_, err = dec.Token()
	return err
}
