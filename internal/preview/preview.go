// Package preview renders every activity layout side by side so templates
// can be checked without publishing an edition.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"kidsnews/internal/activity"
	"kidsnews/internal/edition"
	"kidsnews/internal/logging"
	"kidsnews/internal/record"
	"kidsnews/internal/render"

	"go.uber.org/zap"
)

// Dispatcher generates live activities. See activity.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind activity.Kind, topic, body string) activity.Result
}

// Builder writes one preview edition per kind under an output directory.
type Builder struct {
	Renderer edition.PageRenderer
	// Activities, when set, generates each kind live instead of using the
	// built-in samples.
	Activities Dispatcher
	// Images, when set, fetches illustrations for live previews.
	Images edition.ImageFetcher
	// Meta is the masthead; zero uses DefaultMeta.
	Meta render.Meta
	Log  *zap.Logger
}

// DefaultMeta is the preview masthead.
var DefaultMeta = render.Meta{
	PaperName:  "Haha Kids News",
	Date:       "Layout Preview",
	Day:        "Preview",
	IssueLabel: "Sample Issue",
}

// SampleRecord returns a complete record carrying the sample of kind.
func SampleRecord(kind activity.Kind) *record.Record {
	rec := &record.Record{
		SelectedTopic: "Science and technology (e.g. robots, inventions, space)",
		Page1: &record.Page1{
			Headline: "A Robot Fixes the Newspaper Machine",
			ArticleBody: []string{
				"The big machine that prints our newspaper stopped working one morning.",
				"A small robot named Pip rolled in and looked at every gear.",
				"Pip and the printers worked together, and the papers were ready by lunch.",
			},
			ImagePrompt: "a friendly small robot repairing a printing press, bright cartoon style",
		},
		WordInfo:     &record.WordInfo{Word: "gear", Definition: "a wheel with teeth that turns other wheels"},
		WisdomWindow: &record.WisdomWindow{Title: "Many hands make light work", Meaning: "hard jobs get easier when we share them"},
		HiddenWord:   &record.HiddenWord{Word: "together", Mission: "Find it in the article and circle it!"},
	}
	rec.SetActivity(activity.Sample(kind))
	return rec
}

// Build renders every kind into outDir/<kind>/ and writes an index page
// linking them. It returns the kinds that rendered.
func (b *Builder) Build(ctx context.Context, outDir string) ([]activity.Kind, error) {
	log := logging.Get(b.Log, logging.CategoryRender)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	meta := b.Meta
	if meta == (render.Meta{}) {
		meta = DefaultMeta
	}

	var built []activity.Kind
	for _, kind := range activity.Kinds {
		if err := ctx.Err(); err != nil {
			return built, err
		}
		rec := SampleRecord(kind)
		dir := filepath.Join(outDir, string(kind))

		if b.Activities != nil {
			res := b.Activities.Dispatch(ctx, kind, rec.Headline(), rec.Body())
			rec.SetActivity(res.Activity)
			if res.Fallback {
				log.Warn("live preview fell back to free-response", zap.String("kind", string(kind)), zap.Error(res.Cause))
			}
		}
		if b.Images != nil {
			FetchDir(ctx, b.Images, rec, dir, log)
		}

		if err := b.Renderer.RenderTo(rec, meta, dir); err != nil {
			log.Error("preview render failed", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		built = append(built, kind)
	}

	if err := writeIndex(outDir, built); err != nil {
		return built, err
	}
	log.Info("layout preview written", zap.String("dir", outDir), zap.Int("kinds", len(built)))
	return built, nil
}

// FetchDir runs the edition image plan into dir, creating it first.
func FetchDir(ctx context.Context, images edition.ImageFetcher, rec *record.Record, dir string, log *zap.Logger) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("failed to create preview directory", zap.Error(err))
		return
	}
	edition.FetchImages(ctx, images, rec, dir, log)
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Layout Preview</title></head>
<body>
<h1>Layout Preview</h1>
<ul>
{{range .}}<li>{{.}}: <a href="{{.}}/page1.html">page 1</a> | <a href="{{.}}/page2.html">page 2</a></li>
{{end}}</ul>
</body>
</html>
`))

func writeIndex(outDir string, kinds []activity.Kind) error {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, kinds); err != nil {
		return fmt.Errorf("failed to render preview index: %w", err)
	}
	if err := record.WriteFileAtomic(filepath.Join(outDir, edition.IndexFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write preview index: %w", err)
	}
	return nil
}
