package decision

import (
	"strings"
	"unicode"
)

var greetingOpeners = map[string]bool{
	"hi": true, "hello": true, "hey": true, "heya": true, "hiya": true, "howdy": true,
	"yo": true, "greetings": true, "hola": true, "bonjour": true, "hallo": true,
	"ciao": true, "salut": true, "morning": true, "afternoon": true, "evening": true,
}

var greetingFillers = map[string]bool{
	"good": true, "there": true, "all": true, "everyone": true, "team": true,
	"bot": true, "folks": true, "again": true, "day": true,
}

var interrogatives = map[string]bool{
	"what": true, "why": true, "how": true, "when": true, "where": true, "who": true,
	"whom": true, "whose": true, "which": true, "can": true, "could": true, "would": true,
	"is": true, "are": true, "do": true, "does": true,
}

// IsGreeting reports whether text is a short greeting with no question in it.
func IsGreeting(text string) bool {
	if strings.Contains(text, "?") {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 || len(words) > MaxGreetingWords {
		return false
	}

	opened := false
	for _, w := range words {
		switch {
		case interrogatives[w]:
			return false
		case greetingOpeners[w]:
			opened = true
		case greetingFillers[w]:
		default:
			return false
		}
	}
	return opened
}
