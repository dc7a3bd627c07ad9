package activity

import (
	"fmt"
	"strings"

	"kidsnews/internal/decode"
)

// Activity is the closed set of page-two variants. The unexported method
// keeps the set closed to this package.
type Activity interface {
	Kind() Kind
	isActivity()
}

// Illustrated is implemented by variants that need one activity image.
type Illustrated interface {
	Activity
	IllustrationPrompt() string
}

// TrueFalseQuiz is a list of statements answered O or X.
type TrueFalseQuiz struct {
	Instruction string   `json:"instruction"`
	Items       []string `json:"items"`
}

// HiddenObjects lists objects to find in a line-art scene.
type HiddenObjects struct {
	Instruction string   `json:"instruction"`
	Items       []string `json:"items"`
	ImagePrompt string   `json:"image_prompt"`
}

// InitialClue is one initial-consonant question.
type InitialClue struct {
	Clue     string   `json:"clue"`
	Initials []string `json:"initials"`
}

// InitialConsonantQuiz asks children to guess words from their initials.
type InitialConsonantQuiz struct {
	Instruction string        `json:"instruction"`
	Items       []InitialClue `json:"items"`
}

// Emotion is one face to draw for an emotion-guess activity.
type Emotion struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// EmotionGuess presents a scenario and a set of faces.
type EmotionGuess struct {
	Scenario string    `json:"scenario"`
	Emotions []Emotion `json:"emotions"`
}

// ColoringPage is a line-art image to color in.
type ColoringPage struct {
	Instruction string `json:"instruction"`
	ImagePrompt string `json:"image_prompt"`
}

// FourPanelComic gives the first panel; children draw the other three.
type FourPanelComic struct {
	Instruction      string `json:"instruction"`
	FirstCutDialogue string `json:"first_cut_dialogue"`
	ImagePrompt      string `json:"image_prompt"`
}

// FreeResponse is an open drawing/writing space. It is also the fallback.
type FreeResponse struct {
	Instruction string `json:"instruction"`
	Title       string `json:"title,omitempty"`
}

func (TrueFalseQuiz) Kind() Kind        { return KindTrueFalseQuiz }
func (HiddenObjects) Kind() Kind        { return KindHiddenObjects }
func (InitialConsonantQuiz) Kind() Kind { return KindInitialConsonantQuiz }
func (EmotionGuess) Kind() Kind         { return KindEmotionGuess }
func (ColoringPage) Kind() Kind         { return KindColoringPage }
func (FourPanelComic) Kind() Kind       { return KindFourPanelComic }
func (FreeResponse) Kind() Kind         { return KindFreeResponse }

func (TrueFalseQuiz) isActivity()        {}
func (HiddenObjects) isActivity()        {}
func (InitialConsonantQuiz) isActivity() {}
func (EmotionGuess) isActivity()         {}
func (ColoringPage) isActivity()         {}
func (FourPanelComic) isActivity()       {}
func (FreeResponse) isActivity()         {}

func (a HiddenObjects) IllustrationPrompt() string  { return a.ImagePrompt }
func (a ColoringPage) IllustrationPrompt() string   { return a.ImagePrompt }
func (a FourPanelComic) IllustrationPrompt() string { return a.ImagePrompt }

// FacePrompts returns the image prompts of the emotion set, in order. An
// emotion without a prompt gets DefaultFacePrompt.
func (a EmotionGuess) FacePrompts() []string {
	out := make([]string, len(a.Emotions))
	for i, e := range a.Emotions {
		out[i] = facePrompt(strings.TrimSpace(e.Prompt))
	}
	return out
}

// Title returns the page-two heading for a, or "" when it has none.
func Title(a Activity) string {
	if fr, ok := a.(FreeResponse); ok {
		return fr.Title
	}
	return ""
}

// Unmarshal decodes persisted activity data for kind. Stored data goes
// through the same tolerant mapping as model replies, so records written by
// earlier versions load even when a field has a different shape. Only data
// that is not a JSON object is rejected.
func Unmarshal(kind Kind, data []byte) (Activity, error) {
	res := decode.Decode(string(data))
	if res.Status == decode.StatusEmpty {
		return nil, fmt.Errorf("decode %s activity: %s", kind, res.Reason)
	}
	return FromObject(kind, res.Object), nil
}
