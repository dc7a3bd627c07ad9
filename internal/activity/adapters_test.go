package activity

import (
	"context"
	"testing"

	"kidsnews/internal/decode"
	"kidsnews/internal/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestGenerator(t *testing.T, backend *llmtest.Text) *Generator {
	return NewGenerator(backend, decode.Decoder{}, zaptest.NewLogger(t))
}

func TestTrueFalse_QuestionObjectsExtractedInPlace(t *testing.T) {
	backend := llmtest.NewText(`{
		"instruction": "O or X?",
		"items": [
			"Cats can fly.",
			{"question": "Fish live in water.", "answer": "O"},
			7,
			{"answer": "X"},
			"Robots dream."
		]
	}`)
	a, status, err := generateTrueFalse(context.Background(), newTestGenerator(t, backend), Request{Topic: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, decode.StatusClean, status)

	quiz := a.(TrueFalseQuiz)
	assert.Equal(t, "O or X?", quiz.Instruction)
	assert.Equal(t, []string{
		"Cats can fly.",
		"Fish live in water.",
		"7",
		`{"answer":"X"}`,
		"Robots dream.",
	}, quiz.Items, "no truncation and positions preserved")
}

func TestTrueFalse_PromptUsesBody(t *testing.T) {
	backend := llmtest.NewText(`{"items": []}`)
	_, _, err := generateTrueFalse(context.Background(), newTestGenerator(t, backend), Request{Topic: "Topic", Body: "The article body"})
	require.NoError(t, err)
	assert.Contains(t, backend.Prompts()[0], "The article body")
	assert.Contains(t, backend.Prompts()[0], "true-or-false")
}

func TestHiddenObjects_TruncatesToFive(t *testing.T) {
	backend := llmtest.NewText(`{"instruction": "Find them", "items": ["a","b","c","d","e","f","g"], "image_prompt": "line art"}`)
	a, _, err := generateHiddenObjects(context.Background(), newTestGenerator(t, backend), Request{Topic: "Forest"})
	require.NoError(t, err)

	ho := a.(HiddenObjects)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ho.Items)
	assert.Equal(t, "line art", ho.IllustrationPrompt())
	assert.Contains(t, backend.Prompts()[0], "Forest")
}

func TestInitialQuiz_CoercesEntries(t *testing.T) {
	backend := llmtest.NewText(`{"instruction": "Guess", "items": [
		{"clue": "A pet that meows", "initials": ["C", "T"]},
		{"clue": "Single initial", "initials": "D"},
		"bare clue"
	]}`)
	a, _, err := generateInitialQuiz(context.Background(), newTestGenerator(t, backend), Request{Body: "body"})
	require.NoError(t, err)

	quiz := a.(InitialConsonantQuiz)
	require.Len(t, quiz.Items, 3)
	assert.Equal(t, InitialClue{Clue: "A pet that meows", Initials: []string{"C", "T"}}, quiz.Items[0])
	assert.Equal(t, []string{"D"}, quiz.Items[1].Initials)
	assert.Equal(t, "bare clue", quiz.Items[2].Clue)
}

func TestEmotionGuess_Shapes(t *testing.T) {
	backend := llmtest.NewText("```json\n" + `[{"scenario": "Lost toy", "emotions": [
		{"type": "sad", "prompt": "teary face"},
		{"emotion": "angry", "prompt": "red face"},
		"happy"
	]}]` + "\n```")
	a, status, err := generateEmotionGuess(context.Background(), newTestGenerator(t, backend), Request{Topic: "Toys"})
	require.NoError(t, err)
	assert.Equal(t, decode.StatusUnwrapped, status)

	eg := a.(EmotionGuess)
	assert.Equal(t, "Lost toy", eg.Scenario)
	assert.Equal(t, []Emotion{
		{Type: "sad", Prompt: "teary face"},
		{Type: "angry", Prompt: "red face"},
		{Type: "happy", Prompt: "happy"},
	}, eg.Emotions)
	assert.Equal(t, []string{"teary face", "red face", "happy"}, eg.FacePrompts())
}

func TestEmotionGuess_MissingPromptGetsDefault(t *testing.T) {
	backend := llmtest.NewText(`{"scenario": "Rain", "emotions": [{"type": "sad"}, {"type": "calm", "prompt": "  "}]}`)
	a, _, err := generateEmotionGuess(context.Background(), newTestGenerator(t, backend), Request{Topic: "Weather"})
	require.NoError(t, err)

	eg := a.(EmotionGuess)
	assert.Equal(t, []string{DefaultFacePrompt, DefaultFacePrompt}, eg.FacePrompts())

	// Variants built elsewhere get the same default.
	built := EmotionGuess{Emotions: []Emotion{{Type: "happy"}, {Type: "shy", Prompt: "blushing face"}}}
	assert.Equal(t, []string{DefaultFacePrompt, "blushing face"}, built.FacePrompts())
}

func TestColoringAndComic_PassThrough(t *testing.T) {
	backend := llmtest.NewText(
		`{"instruction": "Color me", "image_prompt": "robot line art"}`,
		`{"instruction": "Draw the rest", "first_cut_dialogue": "Hi!", "image_prompt": "first panel"}`,
	)
	g := newTestGenerator(t, backend)

	col, _, err := generateColoring(context.Background(), g, Request{Topic: "Robots"})
	require.NoError(t, err)
	assert.Equal(t, ColoringPage{Instruction: "Color me", ImagePrompt: "robot line art"}, col)

	comic, _, err := generateComic(context.Background(), g, Request{Topic: "Robots", Body: "Robots help."})
	require.NoError(t, err)
	assert.Equal(t, FourPanelComic{Instruction: "Draw the rest", FirstCutDialogue: "Hi!", ImagePrompt: "first panel"}, comic)
	assert.Contains(t, backend.Prompts()[1], "Robots help.")
}

func TestAdapters_TolerateEmptyDecode(t *testing.T) {
	adapters := map[Kind]adapter{
		KindTrueFalseQuiz:        generateTrueFalse,
		KindHiddenObjects:        generateHiddenObjects,
		KindInitialConsonantQuiz: generateInitialQuiz,
		KindEmotionGuess:         generateEmotionGuess,
		KindColoringPage:         generateColoring,
		KindFourPanelComic:       generateComic,
		KindFreeResponse:         generateFreeResponse,
	}
	for kind, fn := range adapters {
		t.Run(string(kind), func(t *testing.T) {
			backend := llmtest.NewText("I am not JSON")
			var (
				a      Activity
				status decode.Status
				err    error
			)
			require.NotPanics(t, func() {
				a, status, err = fn(context.Background(), newTestGenerator(t, backend), Request{Topic: "t", Body: "b"})
			})
			require.NoError(t, err)
			assert.Equal(t, decode.StatusEmpty, status)
			require.NotNil(t, a)
			assert.Equal(t, kind, a.Kind())
		})
	}
}
