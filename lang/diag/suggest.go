package diag

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds how many candidates a "did you mean" hint offers.
const maxSuggestions = 3

// Suggest returns up to three candidates that fuzzily match name,
// best match first. An empty slice means nothing was close enough.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)

	var out []string

	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}

// SuggestMessage formats an "unknown name" message with an optional
// "did you mean" hint appended.
func SuggestMessage(what, name string, candidates []string) string {
	msg := fmt.Sprintf("unknown %s '%s'", what, name)

	if hints := Suggest(name, candidates); len(hints) > 0 {
		msg += fmt.Sprintf(". Did you mean '%s'?", hints[0])
	}

	return msg
}
