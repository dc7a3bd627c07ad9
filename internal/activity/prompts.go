package activity

import "fmt"

// Prompt templates. Each one states the exact JSON shape the adapter reads.

const emotionPrompt = `Create emotion-guessing quiz data for children about the topic '%s'.
Respond in the form {"scenario": "a short situation", "emotions": [{"type": "emotion name", "prompt": "image prompt for a face showing this emotion"}]}.`

const hiddenObjectsPrompt = `Pick 5 objects to hide in a background scene that fits the topic '%s'. Each hidden object must appear exactly once in the picture!
Response JSON: {"instruction": "guide for the child", "items": ["object1", "object2", "..."], "image_prompt": "Black and white line art style for searching objects"}`

const initialQuizPrompt = `Create 3 initial-letter quiz questions about the article '%s'. The child guesses a word from a clue and its initial letters.
JSON: {"instruction": "", "items": [{"clue": "", "initials": []}]}`

const trueFalsePrompt = `Create 3 true-or-false (O/X) questions based on the article '%s'.
JSON: {"instruction": "", "items": ["question1", "question2", "question3"]} (items must be a plain list of question strings)`

const freeResponsePrompt = `Create a fitting title for a space where children draw a picture or write how they feel about the topic '%s'.
JSON: {"instruction": ""}`

const coloringPrompt = `Create an image prompt for a picture related to the topic '%s' that children can color in.
It must be simple and made of clean lines.
The image must not contain any color. It has to be black and white line art.
Response JSON: {"instruction": "coloring guide (e.g. Color it in with all your favorite colors!)", "image_prompt": "Black and white simple line art for kids coloring book, %s, white background, thick lines, no shading"}`

const comicPrompt = `Using the article topic '%s' and body '%s', set up the first panel of a four-panel comic.
It must be an exciting opening scene so the child can imagine and draw the next three panels.
Response JSON: {
  "instruction": "Look at the first panel and draw the rest of the story!",
  "first_cut_dialogue": "a short, funny line of dialogue for the first panel",
  "image_prompt": "Black and white simple line art for kids, %s theme, the first scene of a story, a cute character doing something related to the article, white background, thick lines, no shading"
}`

func buildPrompt(kind Kind, req Request) string {
	switch kind {
	case KindEmotionGuess:
		return fmt.Sprintf(emotionPrompt, req.Topic)
	case KindHiddenObjects:
		return fmt.Sprintf(hiddenObjectsPrompt, req.Topic)
	case KindInitialConsonantQuiz:
		return fmt.Sprintf(initialQuizPrompt, req.Body)
	case KindTrueFalseQuiz:
		return fmt.Sprintf(trueFalsePrompt, req.Body)
	case KindColoringPage:
		return fmt.Sprintf(coloringPrompt, req.Topic, req.Topic)
	case KindFourPanelComic:
		return fmt.Sprintf(comicPrompt, req.Topic, req.Body, req.Topic)
	default:
		return fmt.Sprintf(freeResponsePrompt, req.Topic)
	}
}
