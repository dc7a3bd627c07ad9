package article

import (
	"context"
	"fmt"
	"strings"

	"kidsnews/internal/activity"
	"kidsnews/internal/decode"
	"kidsnews/internal/llm"
	"kidsnews/internal/logging"
	"kidsnews/internal/record"

	"go.uber.org/zap"
)

const editorialPrompt = `[System role]
You are the editor-in-chief of "%s", a daily newspaper for 7-year-old children.
The paper is a playground for little chicks: ten minutes a day that builds basic reading skills and curiosity about the world.

[Today's mission]
Write an article that children aged 7 to 9 will find exciting, based on the [Topic] below.

[Writing guidelines]
1. Audience: use easy words and short sentences that a 7 to 9 year old can understand.
2. Tone: kind and warm, and written to spark the children's imagination.
3. Topic: %s
4. Activity type: choose the one activity type that best fits the article from (%s).

[Response format]
You must follow this JSON format exactly:
{
  "page1": {
    "headline": "a headline at a child's eye level",
    "article_body": ["paragraph 1", "paragraph 2", "paragraph 3 (3-4 sentences recommended)"],
    "image_prompt": "a bright, warm illustration-style prompt that shows the article well"
  },
  "activity_type": "the chosen activity type",
  "word_info": {
    "word": "one difficult word from the article",
    "definition": "an easy explanation at a child's eye level"
  },
  "wisdom_window": {
    "title": "a proverb or idiom",
    "meaning": "an easy explanation at a child's eye level"
  },
  "hidden_word": {
    "word": "one word that appears in the article body (the word to find)",
    "mission": "a short description of the word plus the mission 'Find it in the article and circle it!'"
  }
}`

// Generator writes the front page.
type Generator struct {
	backend   llm.TextBackend
	decoder   decode.Decoder
	paperName string
	log       *zap.Logger
}

// NewGenerator creates an article Generator.
func NewGenerator(backend llm.TextBackend, decoder decode.Decoder, paperName string, log *zap.Logger) *Generator {
	if backend == nil {
		backend = llm.Unavailable{}
	}
	if paperName == "" {
		paperName = "Haha Kids News"
	}
	return &Generator{backend: backend, decoder: decoder, paperName: paperName, log: logging.Get(log, logging.CategoryArticle)}
}

// SelectTopic returns manualTopic verbatim, or the weekday theme label.
func SelectTopic(dayLabel, manualTopic string) string {
	if manualTopic != "" {
		return manualTopic
	}
	return ThemeFor(dayLabel).Label
}

// Prompt builds the editorial prompt for topic.
func (g *Generator) Prompt(topic string) string {
	return fmt.Sprintf(editorialPrompt, g.paperName, topic, activity.KindList())
}

// Generate runs stage one. It never retries and never fails: a backend
// error or an unreadable reply yields an empty record, which the pipeline
// detects through the missing page1.
func (g *Generator) Generate(ctx context.Context, dayLabel, manualTopic string) *record.Record {
	topic := SelectTopic(dayLabel, manualTopic)
	g.log.Info("requesting article", zap.String("day", dayLabel), zap.String("topic", topic), zap.Bool("manual", manualTopic != ""))

	raw, err := g.backend.Complete(ctx, g.Prompt(topic))
	if err != nil {
		g.log.Error("article generation failed", zap.Error(err))
		return &record.Record{}
	}
	res := g.decoder.Decode(raw)
	if res.LowConfidence() {
		g.log.Warn("article reply decoded to an empty object", zap.String("reason", res.Reason))
		return &record.Record{}
	}

	rec := fromObject(res.Object)
	rec.SelectedTopic = topic
	return rec
}

func fromObject(obj decode.Object) *record.Record {
	rec := &record.Record{
		ActivityType: activity.Normalize(obj.String("activity_type")),
	}
	if obj.Has("page1") {
		p := obj.Object("page1")
		rec.Page1 = &record.Page1{
			Headline:    p.String("headline"),
			ArticleBody: paragraphs(p),
			ImagePrompt: p.String("image_prompt"),
		}
	}
	if obj.Has("word_info") {
		w := obj.Object("word_info")
		rec.WordInfo = &record.WordInfo{Word: w.String("word"), Definition: w.String("definition")}
	}
	if obj.Has("wisdom_window") {
		w := obj.Object("wisdom_window")
		rec.WisdomWindow = &record.WisdomWindow{Title: w.String("title"), Meaning: w.String("meaning")}
	}
	if obj.Has("hidden_word") {
		h := obj.Object("hidden_word")
		rec.HiddenWord = &record.HiddenWord{Word: h.String("word"), Mission: h.String("mission")}
	}
	return rec
}

// paragraphs accepts a list of paragraphs or one blank-line separated string.
func paragraphs(p decode.Object) []string {
	if items, ok := p["article_body"].(string); ok {
		var out []string
		for _, para := range strings.Split(items, "\n\n") {
			if s := strings.TrimSpace(para); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return p.Strings("article_body")
}
