package chat

import (
	"regexp"
	"strings"
)

var (
	nameAfterMAppelle  = regexp.MustCompile(`(?i)m[' ]?appelle\s+([\p{L}'-]+)`)
	nameAfterAppelleMoi = regexp.MustCompile(`(?i)appelle[ -]moi\s+([\p{L}'-]+)`)
)

// ExtractName pulls a first name out of phrases like "je m'appelle Léa" or
// "appelle moi Coach". Returns "" when no name is present. Apostrophes in
// the captured name become spaces so "d'Arc" is stored as "d Arc".
func ExtractName(message string) string {
	msg := strings.ReplaceAll(strings.TrimSpace(message), "’", "'")
	for _, re := range []*regexp.Regexp{nameAfterMAppelle, nameAfterAppelleMoi} {
		if match := re.FindStringSubmatch(msg); match != nil {
			return strings.ReplaceAll(strings.TrimSpace(match[1]), "'", " ")
		}
	}
	return ""
}
