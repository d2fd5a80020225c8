package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// strips and collapses spaces, drops dangling connector words left behind
// after a date phrase is cut out, uppercases the first letter of each
// word, removes the trailing period
func CleanupString(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 && isConnector(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	for len(words) > 0 && isConnector(words[0]) {
		words = words[1:]
	}
	s = strings.Join(words, " ")
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimRight(s, " ,;:-")
	return cases.Title(language.English, cases.NoLower).String(s)
}

func isConnector(word string) bool {
	switch strings.ToLower(strings.Trim(word, ",;:-")) {
	case "at", "on", "in", "for", "by", "from", "":
		return true
	}
	return false
}
