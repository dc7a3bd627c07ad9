package activity

import (
	"context"
	"errors"
	"testing"

	"kidsnews/internal/decode"
	"kidsnews/internal/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const freeReply = `{"instruction": "Draw your favorite part of the story."}`

func freeResponseFor(t *testing.T, topic string) Activity {
	t.Helper()
	backend := llmtest.NewText(freeReply)
	a, _, err := generateFreeResponse(context.Background(), newTestGenerator(t, backend), Request{Topic: topic})
	require.NoError(t, err)
	return a
}

func TestDispatch_RoutesEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			backend := llmtest.NewText(`{"instruction": "Go!"}`)
			d := NewDispatcher(backend, decode.Decoder{}, zaptest.NewLogger(t))

			res := d.Dispatch(context.Background(), kind, "Topic", "Body")
			require.NotNil(t, res.Activity)
			assert.Equal(t, kind, res.Kind())
			assert.False(t, res.Fallback)
			assert.Equal(t, 1, backend.Calls())
		})
	}
}

func TestDispatch_UnknownKindFallsBack(t *testing.T) {
	backend := llmtest.NewText(freeReply)
	d := NewDispatcher(backend, decode.Decoder{}, zaptest.NewLogger(t))

	res := d.Dispatch(context.Background(), Kind("crossword"), "Space", "Body")
	assert.True(t, res.Fallback)
	assert.Equal(t, Kind("crossword"), res.Requested)
	assert.Error(t, res.Cause)
	assert.Equal(t, freeResponseFor(t, "Space"), res.Activity)
	assert.Equal(t, 1, backend.Calls())
}

func TestDispatch_BackendErrorFallsBack(t *testing.T) {
	backend := &llmtest.Text{Replies: []llmtest.Reply{
		{Err: errors.New("quota exceeded")},
		{Text: freeReply},
	}}
	d := NewDispatcher(backend, decode.Decoder{}, zaptest.NewLogger(t))

	res := d.Dispatch(context.Background(), KindTrueFalseQuiz, "Space", "Body")
	assert.True(t, res.Fallback)
	assert.Equal(t, KindFreeResponse, res.Kind())
	assert.Equal(t, freeResponseFor(t, "Space"), res.Activity)
	assert.Equal(t, 2, backend.Calls())
}

func TestDispatch_AdapterPanicFallsBack(t *testing.T) {
	backend := llmtest.NewText(freeReply)
	d := NewDispatcher(backend, decode.Decoder{}, zaptest.NewLogger(t))
	d.adapters[KindEmotionGuess] = func(context.Context, *Generator, Request) (Activity, decode.Status, error) {
		panic("boom")
	}

	var res Result
	require.NotPanics(t, func() {
		res = d.Dispatch(context.Background(), KindEmotionGuess, "Space", "Body")
	})
	assert.True(t, res.Fallback)
	assert.ErrorContains(t, res.Cause, "boom")
	assert.Equal(t, freeResponseFor(t, "Space"), res.Activity)
}

func TestDispatch_FreeResponseNeverFails(t *testing.T) {
	backend := &llmtest.Text{Replies: []llmtest.Reply{{Err: errors.New("offline")}}}
	d := NewDispatcher(backend, decode.Decoder{}, zaptest.NewLogger(t))

	res := d.Dispatch(context.Background(), Kind("unknown"), "Space", "Body")
	assert.Equal(t, FreeResponse{}, res.Activity)
	assert.Equal(t, decode.StatusEmpty, res.Decode)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"quiz-true-false", KindTrueFalseQuiz, true},
		{" Hidden-Objects ", KindHiddenObjects, true},
		{"ox_quiz", KindTrueFalseQuiz, true},
		{"initial_quiz", KindInitialConsonantQuiz, true},
		{"basic", KindFreeResponse, true},
		{"cartoon", KindFourPanelComic, true},
		{"coloring", KindColoringPage, true},
		{"crossword", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, KindFreeResponse, Normalize("crossword"))

	var k Kind
	require.NoError(t, k.Set("emotion_guess"))
	assert.Equal(t, KindEmotionGuess, k)
	assert.Error(t, k.Set("crossword"))
}

func TestUnmarshal_ByKind(t *testing.T) {
	a, err := Unmarshal(KindHiddenObjects, []byte(`{"instruction": "Find", "items": ["a"], "image_prompt": "p"}`))
	require.NoError(t, err)
	assert.Equal(t, HiddenObjects{Instruction: "Find", Items: []string{"a"}, ImagePrompt: "p"}, a)

	a, err = Unmarshal(Kind("nonsense"), []byte(`{"instruction": "Draw"}`))
	require.NoError(t, err)
	assert.Equal(t, FreeResponse{Instruction: "Draw"}, a)

	// Older records stored scalars where lists are expected now.
	a, err = Unmarshal(KindEmotionGuess, []byte(`{"scenario": "Rain", "emotions": "gloomy"}`))
	require.NoError(t, err)
	assert.Equal(t, EmotionGuess{Scenario: "Rain", Emotions: []Emotion{{Type: "gloomy", Prompt: "gloomy"}}}, a)

	a, err = Unmarshal(Normalize("initial_quiz"), []byte(`{"items": [{"clue": "a pet", "initials": "CT"}]}`))
	require.NoError(t, err)
	assert.Equal(t, InitialConsonantQuiz{Items: []InitialClue{{Clue: "a pet", Initials: []string{"CT"}}}}, a)

	_, err = Unmarshal(KindEmotionGuess, []byte(`"just text"`))
	assert.Error(t, err)
}

func TestSample_CoversEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		assert.Equal(t, kind, Sample(kind).Kind())
	}
}
