package activity

import (
	"kidsnews/internal/decode"
)

// DefaultFacePrompt stands in for an emotion without an image prompt.
const DefaultFacePrompt = "face"

// FromObject maps a decoded object onto kind's variant. Missing keys become
// zero values and scalars where lists are expected become one-element
// lists, so any object yields a usable variant. Unknown kinds map to
// FreeResponse.
func FromObject(kind Kind, obj decode.Object) Activity {
	switch Normalize(string(kind)) {
	case KindTrueFalseQuiz:
		return trueFalseFrom(obj)
	case KindHiddenObjects:
		return hiddenObjectsFrom(obj)
	case KindInitialConsonantQuiz:
		return initialQuizFrom(obj)
	case KindEmotionGuess:
		return emotionGuessFrom(obj)
	case KindColoringPage:
		return coloringFrom(obj)
	case KindFourPanelComic:
		return comicFrom(obj)
	default:
		return freeResponseFrom(obj)
	}
}

func trueFalseFrom(obj decode.Object) TrueFalseQuiz {
	out := TrueFalseQuiz{Instruction: obj.String("instruction")}
	if obj.Has("items") {
		raw := obj.List("items")
		out.Items = make([]string, 0, len(raw))
		for _, item := range raw {
			out.Items = append(out.Items, questionText(item))
		}
	}
	return out
}

// questionText flattens a quiz entry. Models sometimes answer with
// {"question": ..., "answer": ...} objects instead of bare strings.
func questionText(item interface{}) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]interface{}:
		if q, ok := v["question"]; ok {
			return decode.Stringify(q)
		}
	}
	return decode.Stringify(item)
}

func hiddenObjectsFrom(obj decode.Object) HiddenObjects {
	items := obj.Strings("items")
	if len(items) > MaxHiddenObjects {
		items = items[:MaxHiddenObjects]
	}
	return HiddenObjects{
		Instruction: obj.String("instruction"),
		Items:       items,
		ImagePrompt: obj.String("image_prompt"),
	}
}

func initialQuizFrom(obj decode.Object) InitialConsonantQuiz {
	out := InitialConsonantQuiz{Instruction: obj.String("instruction")}
	for _, item := range obj.List("items") {
		clue, ok := decode.AsObject(item)
		if !ok {
			out.Items = append(out.Items, InitialClue{Clue: decode.Stringify(item)})
			continue
		}
		out.Items = append(out.Items, InitialClue{
			Clue:     clue.String("clue"),
			Initials: clue.Strings("initials"),
		})
	}
	return out
}

func emotionGuessFrom(obj decode.Object) EmotionGuess {
	out := EmotionGuess{Scenario: obj.String("scenario")}
	for _, item := range obj.List("emotions") {
		e, ok := decode.AsObject(item)
		if !ok {
			s := decode.Stringify(item)
			out.Emotions = append(out.Emotions, Emotion{Type: s, Prompt: facePrompt(s)})
			continue
		}
		out.Emotions = append(out.Emotions, Emotion{
			Type:   e.StringOr("type", e.String("emotion")),
			Prompt: e.StringOr("prompt", DefaultFacePrompt),
		})
	}
	return out
}

func facePrompt(s string) string {
	if s == "" {
		return DefaultFacePrompt
	}
	return s
}

func coloringFrom(obj decode.Object) ColoringPage {
	return ColoringPage{
		Instruction: obj.String("instruction"),
		ImagePrompt: obj.String("image_prompt"),
	}
}

func comicFrom(obj decode.Object) FourPanelComic {
	return FourPanelComic{
		Instruction:      obj.String("instruction"),
		FirstCutDialogue: obj.String("first_cut_dialogue"),
		ImagePrompt:      obj.String("image_prompt"),
	}
}

func freeResponseFrom(obj decode.Object) FreeResponse {
	return FreeResponse{
		Instruction: obj.String("instruction"),
		Title:       obj.String("title"),
	}
}
