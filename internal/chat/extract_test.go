package chat_test

import (
	"testing"

	"github.com/fittrackr/assistant/internal/chat"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	for _, tc := range []struct {
		message string
		want    string
	}{
		{"je m'appelle Marie", "Marie"},
		{"Je M'Appelle Jean", "Jean"},
		{"je m appelle Karim", "Karim"},
		{"je m’appelle Aïcha", "Aïcha"},
		{"appelle moi Coach", "Coach"},
		{"appelle-moi Léa", "Léa"},
		{"je m'appelle Jean-Pierre", "Jean-Pierre"},
		{"je m'appelle d'Arc", "d Arc"},
		{"  je m'appelle Bruno  ", "Bruno"},
		{"bonjour tout le monde", ""},
		{"mon prénom est Jean", ""},
		{"", ""},
	} {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, chat.ExtractName(tc.message))
		})
	}
}
