// Package moderation censors posted message bodies and guesses their language.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks censored words in message bodies. The zero value censors nothing.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// folded is a body reduced to matchable runes. offsets[i] is the index, in the
// original runes, of folded rune i.
type folded struct {
	runes   []rune
	offsets []int
}

// NewModerator builds the automaton from the folded censored words.
// Words that fold to nothing (only punctuation or spaces) are skipped.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		if f := fold([]rune(word)); len(f.runes) > 0 {
			patterns = append(patterns, f.runes)
		}
	}
	moderator := Moderator{censoredChar: censoredChar, log: log}
	if len(patterns) == 0 {
		log.Warn("Moderator built without any censored word")
		return moderator, nil
	}

	moderator.matcher = new(goahocorasick.Machine)
	if err := moderator.matcher.Build(patterns); err != nil {
		return Moderator{}, err
	}
	log.Debug("Moderator ready", "patterns", len(patterns))
	return moderator, nil
}

// Censor masks every rune of the original body spanned by a match, separators included,
// and returns the matched words in order of appearance.
func (m Moderator) Censor(body string) (string, []string) {
	if m.matcher == nil || body == "" {
		return body, nil
	}
	original := []rune(body)
	f := fold(original)
	if len(f.runes) == 0 {
		return body, nil
	}
	terms := m.matcher.MultiPatternSearch(f.runes, false)
	if len(terms) == 0 {
		return body, nil
	}

	words := make([]string, 0, len(terms))
	for _, term := range terms {
		last := term.Pos + len(term.Word) - 1
		if term.Pos < 0 || last >= len(f.offsets) {
			continue
		}
		for i := f.offsets[term.Pos]; i <= f.offsets[last]; i++ {
			original[i] = m.censoredChar
		}
		words = append(words, string(term.Word))
	}
	return string(original), words
}

// fold lowercases, maps leet speak back to letters and drops separators.
func fold(input []rune) folded {
	f := folded{runes: make([]rune, 0, len(input)), offsets: make([]int, 0, len(input))}
	for i, r := range input {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.offsets = append(f.offsets, i)
	}
	return f
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
	}
	return r
}
