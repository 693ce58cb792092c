// Package textnorm folds free text into the lowercase ASCII form every
// matcher in the module compares against.
package textnorm

import (
	"strings"
	"unicode"
)

// accentFold is explicit so output does not depend on Unicode table versions.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
}

// corrections repairs common misspellings. Keys are compared against a token
// stripped of punctuation. No value may also be a key.
var corrections = map[string]string{
	"cabesa":    "cabeza",
	"caveza":    "cabeza",
	"dolr":      "dolor",
	"diarea":    "diarrea",
	"estomgo":   "estomago",
	"estomaco":  "estomago",
	"ansiedaz":  "ansiedad",
	"insommio":  "insomnio",
	"insonmio":  "insomnio",
	"artritys":  "artritis",
	"gargnta":   "garganta",
	"nausias":   "nauseas",
	"bomito":    "vomito",
	"bomitos":   "vomitos",
	"gastritys": "gastritis",
	"jaquecas":  "jaqueca",
}

// Normalize lowercases, trims, folds accents, repairs misspellings, drops
// characters outside [a-z0-9] and whitespace, and collapses spaces.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(strings.ToLower(s))
	s = fold(s)
	s = correct(s)
	s = strip(s)
	return strings.Join(strings.Fields(s), " ")
}

func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if f, ok := accentFold[r]; ok {
			r = f
		}
		b.WriteRune(r)
	}
	return b.String()
}

func correct(s string) string {
	fields := strings.Fields(s)
	changed := false
	for i, tok := range fields {
		if fixed, ok := corrections[strip(tok)]; ok {
			fields[i] = fixed
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(fields, " ")
}

func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Tokens returns the whitespace separated words of an already normalized string.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
