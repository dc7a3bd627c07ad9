package article

import (
	"context"
	"errors"
	"testing"
	"time"

	"kidsnews/internal/activity"
	"kidsnews/internal/decode"
	"kidsnews/internal/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const articleReply = "```json\n" + `{
  "page1": {
    "headline": "Saying No Kindly",
    "article_body": ["Sometimes a friend asks for something.", "You can say no with a smile."],
    "image_prompt": "two children sharing a bench"
  },
  "activity_type": "emotion-guess",
  "word_info": {"word": "boundary", "definition": "an invisible line that keeps you comfortable"},
  "wisdom_window": {"title": "Honesty is the best policy", "meaning": "telling the truth helps everyone"},
  "hidden_word": {"word": "smile", "mission": "Find it in the article and circle it!"}
}` + "\n```"

func TestThemeFor(t *testing.T) {
	tests := []struct {
		day  string
		slug string
	}{
		{"Monday", "animals-nature"},
		{"Tuesday", "science-technology"},
		{"Wednesday", "history-people"},
		{"Thursday", "mind-care"},
		{"thursday", "mind-care"},
		{"Friday", "dreams-growth"},
		{"Saturday", "money-life"},
		{"Sunday", "world-news"},
		{"Holiday", "free-topic"},
		{"", "free-topic"},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.slug, ThemeFor(tt.day).Slug)
		})
	}
	assert.Equal(t, "Thursday", DayLabel(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)))
}

func TestGenerate_MapsReplyAndStampsTopic(t *testing.T) {
	backend := llmtest.NewText(articleReply)
	g := NewGenerator(backend, decode.Decoder{}, "", zaptest.NewLogger(t))

	rec := g.Generate(context.Background(), "Thursday", "")
	require.NotNil(t, rec.Page1)
	assert.Equal(t, "Saying No Kindly", rec.Page1.Headline)
	assert.Len(t, rec.Page1.ArticleBody, 2)
	assert.Equal(t, activity.KindEmotionGuess, rec.ActivityType)
	assert.Equal(t, ThemeFor("Thursday").Label, rec.SelectedTopic)
	assert.Equal(t, "boundary", rec.Word().Word)
	assert.Equal(t, "smile", rec.Hidden().Word)
	assert.Nil(t, rec.ActivityData)

	require.Equal(t, 1, backend.Calls())
	prompt := backend.Prompts()[0]
	assert.True(t, llmtest.Contains(prompt, "Mind care", "7 to 9", "short sentences", "four-panel-comic"))
}

func TestGenerate_ManualTopicVerbatim(t *testing.T) {
	backend := llmtest.NewText(articleReply)
	g := NewGenerator(backend, decode.Decoder{}, "Haha Kids News", zaptest.NewLogger(t))

	rec := g.Generate(context.Background(), "Monday", "  Volcanoes under the sea ")
	assert.Equal(t, "  Volcanoes under the sea ", rec.SelectedTopic)
	assert.Contains(t, backend.Prompts()[0], "Volcanoes under the sea")
	assert.NotContains(t, backend.Prompts()[0], "Animals and nature")
}

func TestGenerate_Degraded(t *testing.T) {
	tests := []struct {
		name  string
		reply llmtest.Reply
	}{
		{"backend error", llmtest.Reply{Err: errors.New("quota exceeded")}},
		{"unparseable", llmtest.Reply{Text: "I could not write an article today."}},
		{"empty", llmtest.Reply{Text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &llmtest.Text{Replies: []llmtest.Reply{tt.reply}}
			g := NewGenerator(backend, decode.Decoder{}, "", zaptest.NewLogger(t))

			rec := g.Generate(context.Background(), "Friday", "")
			require.NotNil(t, rec)
			assert.False(t, rec.HasArticle())
			assert.Empty(t, rec.SelectedTopic)
			assert.Equal(t, 1, backend.Calls(), "stage one never retries")
		})
	}
}

func TestGenerate_CoercesLooseShapes(t *testing.T) {
	backend := llmtest.NewText(`[{
		"page1": {"headline": "Tiny Robots", "article_body": "First part.\n\nSecond part.", "image_prompt": "robots"},
		"activity_type": "OX_QUIZ"
	}]`)
	g := NewGenerator(backend, decode.Decoder{}, "", zaptest.NewLogger(t))

	rec := g.Generate(context.Background(), "Tuesday", "")
	require.True(t, rec.HasArticle())
	assert.Equal(t, []string{"First part.", "Second part."}, rec.Page1.ArticleBody)
	assert.Equal(t, activity.KindTrueFalseQuiz, rec.ActivityType)
	assert.Nil(t, rec.WordInfo)
}
