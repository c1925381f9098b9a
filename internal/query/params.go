package query

import (
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/hpungsan/twine/internal/errors"
)

// Structured parameter names.
const (
	ParamIsPalindrome      = "is_palindrome"
	ParamMinLength         = "min_length"
	ParamMaxLength         = "max_length"
	ParamWordCount         = "word_count"
	ParamContainsCharacter = "contains_character"
)

// ParseParams validates structured filter parameters and maps each present
// one onto the Filter. Unknown parameters are ignored. The returned error is
// an INVALID_REQUEST TwineError naming the offending parameter.
func ParseParams(params url.Values) (Filter, error) {
	var f Filter

	if raw, ok, err := single(params, ParamIsPalindrome); err != nil {
		return Filter{}, err
	} else if ok {
		switch raw {
		case "true":
			f.IsPalindrome = boolPtr(true)
		case "false":
			f.IsPalindrome = boolPtr(false)
		default:
			return Filter{}, errors.NewInvalidParameter(ParamIsPalindrome, "must be true or false")
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{ParamMinLength, &f.MinLength},
		{ParamMaxLength, &f.MaxLength},
		{ParamWordCount, &f.WordCount},
	} {
		raw, ok, err := single(params, p.name)
		if err != nil {
			return Filter{}, err
		}
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, errors.NewInvalidParameter(p.name, "must be an integer")
		}
		*p.dst = intPtr(n)
	}

	if raw, ok, err := single(params, ParamContainsCharacter); err != nil {
		return Filter{}, err
	} else if ok {
		if utf8.RuneCountInString(raw) != 1 {
			return Filter{}, errors.NewInvalidParameter(ParamContainsCharacter, "must be a single character")
		}
		f.ContainsCharacter = stringPtr(raw)
	}

	return f, nil
}

// single returns the only value of a parameter. A parameter given more than
// once is rejected rather than silently picking one.
func single(params url.Values, name string) (string, bool, error) {
	values, ok := params[name]
	if !ok || len(values) == 0 {
		return "", false, nil
	}
	if len(values) > 1 {
		return "", false, errors.NewInvalidParameter(name, "must be specified once")
	}
	return values[0], true, nil
}
