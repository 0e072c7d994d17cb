// Package moderation masks configured words in message bodies before
// display. Purely a display concern: it never blocks or alters delivery.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"subnet-vox/errors"
)

// Filter holds an Aho-Corasick automaton built from a normalized word
// list. Matching is case-insensitive and tolerant of leet substitutions
// and punctuation noise inside a word.
type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// NewFilter builds the automaton once, at startup.
func NewFilter(words []string, replacement rune) (*Filter, error) {
	if len(words) == 0 {
		return nil, errors.ErrEmptyWordList
	}

	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		folded, _ := fold([]rune(w))
		if len(folded) > 0 {
			patterns = append(patterns, folded)
		}
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWordList
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: machine, replacement: replacement}, nil
}

// Apply returns text with every matched span masked by the replacement
// rune. Spacing and unmatched characters are preserved.
func (f *Filter) Apply(text string) string {
	original := []rune(text)
	folded, sourceIdx := fold(original)
	if len(folded) == 0 {
		return text
	}

	matches := f.machine.MultiPatternSearch(folded, false)
	if len(matches) == 0 {
		return text
	}

	for _, match := range matches {
		start := match.Pos
		end := start + len(match.Word)
		if start < 0 || end > len(sourceIdx) {
			continue
		}
		// Mask the original span, first matched rune through last.
		for i := sourceIdx[start]; i <= sourceIdx[end-1]; i++ {
			original[i] = f.replacement
		}
	}
	return string(original)
}

// fold lowercases, undoes leet substitutions, and drops separator noise,
// keeping for each kept rune its index in the source.
func fold(src []rune) ([]rune, []int) {
	folded := make([]rune, 0, len(src))
	sourceIdx := make([]int, 0, len(src))
	for i, r := range src {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		folded = append(folded, unicode.ToLower(r))
		sourceIdx = append(sourceIdx, i)
	}
	return folded, sourceIdx
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	case '7':
		return 't'
	default:
		return r
	}
}
