// Package activity generates the interactive content of the newspaper's
// second page. Each Kind has an adapter that prompts the text backend and
// normalizes the decoded reply into that kind's variant struct; the
// Dispatcher routes a Kind to its adapter and falls back to free-response.
package activity

import (
	"fmt"
	"strings"
)

// Kind tags an activity variant.
type Kind string

const (
	KindTrueFalseQuiz        Kind = "quiz-true-false"
	KindHiddenObjects        Kind = "hidden-objects"
	KindInitialConsonantQuiz Kind = "initial-consonant-quiz"
	KindEmotionGuess         Kind = "emotion-guess"
	KindFreeResponse         Kind = "free-response"
	KindColoringPage         Kind = "coloring-page"
	KindFourPanelComic       Kind = "four-panel-comic"
)

// Kinds lists every recognized kind in prompt order.
var Kinds = []Kind{
	KindTrueFalseQuiz,
	KindHiddenObjects,
	KindInitialConsonantQuiz,
	KindEmotionGuess,
	KindColoringPage,
	KindFourPanelComic,
	KindFreeResponse,
}

// aliases maps tags written by earlier editions of the newspaper.
var aliases = map[string]Kind{
	"ox_quiz":        KindTrueFalseQuiz,
	"ox-quiz":        KindTrueFalseQuiz,
	"hidden_objects": KindHiddenObjects,
	"initial_quiz":   KindInitialConsonantQuiz,
	"emotion_guess":  KindEmotionGuess,
	"basic":          KindFreeResponse,
	"coloring":       KindColoringPage,
	"cartoon":        KindFourPanelComic,
}

// ParseKind resolves a tag or legacy alias. Unknown tags return false.
func ParseKind(tag string) (Kind, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for _, k := range Kinds {
		if string(k) == t {
			return k, true
		}
	}
	if k, ok := aliases[t]; ok {
		return k, true
	}
	return "", false
}

// Normalize resolves a tag, defaulting to free-response.
func Normalize(tag string) Kind {
	if k, ok := ParseKind(tag); ok {
		return k
	}
	return KindFreeResponse
}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool {
	for _, c := range Kinds {
		if c == k {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Set implements pflag.Value so a Kind can be bound to a CLI flag.
func (k *Kind) Set(v string) error {
	parsed, ok := ParseKind(v)
	if !ok {
		return fmt.Errorf("unknown activity kind %q (valid: %s)", v, KindList())
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string { return "kind" }

// KindList returns the recognized tags joined for messages and prompts.
func KindList() string {
	parts := make([]string, len(Kinds))
	for i, k := range Kinds {
		parts[i] = "'" + string(k) + "'"
	}
	return strings.Join(parts, ", ")
}
