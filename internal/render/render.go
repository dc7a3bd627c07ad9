// Package render turns a completed record into the two newspaper pages.
//
// Templates are embedded; a template directory may override any of them
// file by file, which is how the layout preview iterates on designs.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"kidsnews/internal/activity"
	"kidsnews/internal/imagefetch"
	"kidsnews/internal/logging"
	"kidsnews/internal/record"

	"go.uber.org/zap"
)

//go:embed templates
var embedded embed.FS

// File names inside an edition directory.
const (
	Page1File         = "page1.html"
	Page2File         = "page2.html"
	ArticleImageFile  = "article_image.png"
	ActivityImageFile = "activity_image.png"
)

const (
	styleFile         = "style.css"
	page1Layout       = "layout_p1.html"
	page2Layout       = "layout_p2.html"
	fallbackKind      = activity.KindFreeResponse
	defaultTopic      = "Today's Story"
	defaultPage2Title = "Today's Activity"
)

// Meta is the per-edition information printed on both pages.
type Meta struct {
	PaperName  string
	Date       string
	Day        string
	IssueLabel string
}

// Page1Data is the front-page template input.
type Page1Data struct {
	CSS        template.CSS
	PaperName  string
	Date       string
	Day        string
	IssueLabel string
	Topic      string
	Headline   string
	Paragraphs []string
	ImageURL   string
	Word       record.WordInfo
	Wisdom     record.WisdomWindow
	Hidden     record.HiddenWord
}

// ActivityData is the input of an activities/<kind>.html snippet.
type ActivityData struct {
	Activity activity.Activity
	// ImageURL is set only when activity_image.png exists.
	ImageURL string
	// FaceImages has one entry per emotion; missing images are "".
	FaceImages []string
}

// Page2Data is the activity-page template input.
type Page2Data struct {
	CSS        template.CSS
	PaperName  string
	Date       string
	IssueLabel string
	Topic      string
	Title      string
	Kind       activity.Kind
	Content    template.HTML
	Wisdom     record.WisdomWindow
}

// Pages holds rendered markup.
type Pages struct {
	Page1 []byte
	Page2 []byte
}

// Renderer executes the page templates.
type Renderer struct {
	fsys fs.FS
	log  *zap.Logger
}

// New returns a Renderer over the embedded templates, overridden file by
// file from overrideDir when it is non-empty.
func New(overrideDir string, log *zap.Logger) (*Renderer, error) {
	base, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded templates: %w", err)
	}
	fsys := base
	if overrideDir != "" {
		info, err := os.Stat(overrideDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open template directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template path %s is not a directory", overrideDir)
		}
		fsys = overlay{top: os.DirFS(overrideDir), base: base}
	}
	return &Renderer{fsys: fsys, log: logging.Get(log, logging.CategoryRender)}, nil
}

// Render builds both pages for rec. Image references are included only
// for files already present in dir.
func (r *Renderer) Render(rec *record.Record, meta Meta, dir string) (*Pages, error) {
	css, err := fs.ReadFile(r.fsys, styleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	topic := rec.CleanTopic()
	if topic == "" {
		topic = defaultTopic
	}

	p1 := Page1Data{
		CSS:        template.CSS(css),
		PaperName:  meta.PaperName,
		Date:       meta.Date,
		Day:        meta.Day,
		IssueLabel: meta.IssueLabel,
		Topic:      topic,
		Headline:   rec.Headline(),
		ImageURL:   existing(dir, ArticleImageFile),
		Word:       rec.Word(),
		Wisdom:     rec.Wisdom(),
		Hidden:     rec.Hidden(),
	}
	if rec.Page1 != nil {
		p1.Paragraphs = rec.Page1.ArticleBody
	}
	page1, err := r.execute(page1Layout, p1)
	if err != nil {
		return nil, err
	}

	a := rec.ActivityData
	if a == nil {
		a = activity.FreeResponse{}
	}
	snippet, err := r.activitySnippet(a, dir)
	if err != nil {
		return nil, err
	}
	title := activity.Title(a)
	if title == "" {
		title = defaultPage2Title
	}
	page2, err := r.execute(page2Layout, Page2Data{
		CSS:        template.CSS(css),
		PaperName:  meta.PaperName,
		Date:       meta.Date,
		IssueLabel: meta.IssueLabel,
		Topic:      topic,
		Title:      title,
		Kind:       a.Kind(),
		Content:    template.HTML(snippet),
		Wisdom:     rec.Wisdom(),
	})
	if err != nil {
		return nil, err
	}
	return &Pages{Page1: page1, Page2: page2}, nil
}

// RenderTo renders and writes page1.html and page2.html into dir.
func (r *Renderer) RenderTo(rec *record.Record, meta Meta, dir string) error {
	pages, err := r.Render(rec, meta, dir)
	if err != nil {
		return err
	}
	if err := record.WriteFileAtomic(filepath.Join(dir, Page1File), pages.Page1, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", Page1File, err)
	}
	if err := record.WriteFileAtomic(filepath.Join(dir, Page2File), pages.Page2, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", Page2File, err)
	}
	r.log.Info("pages rendered", zap.String("dir", dir), zap.String("kind", string(rec.ActivityType)))
	return nil
}

func (r *Renderer) activitySnippet(a activity.Activity, dir string) ([]byte, error) {
	name := snippetName(a.Kind())
	if _, err := fs.Stat(r.fsys, name); err != nil {
		r.log.Warn("no template for activity kind, using free-response",
			zap.String("kind", string(a.Kind())))
		name = snippetName(fallbackKind)
		a = activity.FreeResponse{Instruction: instruction(a), Title: activity.Title(a)}
	}

	data := ActivityData{Activity: a, ImageURL: existing(dir, ActivityImageFile)}
	if eg, ok := a.(activity.EmotionGuess); ok {
		data.FaceImages = make([]string, len(eg.Emotions))
		for i := range eg.Emotions {
			data.FaceImages[i] = existing(dir, imagefetch.SetFileName(i))
		}
	}
	return r.execute(name, data)
}

func (r *Renderer) execute(name string, data interface{}) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

func snippetName(k activity.Kind) string {
	return "activities/" + string(k) + ".html"
}

// existing returns name when dir/name is a file, otherwise "".
func existing(dir, name string) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil || info.IsDir() {
		return ""
	}
	return name
}

// instruction extracts whatever instruction-like text a variant carries.
func instruction(a activity.Activity) string {
	switch v := a.(type) {
	case activity.TrueFalseQuiz:
		return v.Instruction
	case activity.HiddenObjects:
		return v.Instruction
	case activity.InitialConsonantQuiz:
		return v.Instruction
	case activity.EmotionGuess:
		return v.Scenario
	case activity.ColoringPage:
		return v.Instruction
	case activity.FourPanelComic:
		return v.Instruction
	case activity.FreeResponse:
		return v.Instruction
	}
	return ""
}

// overlay serves files from top, falling back to base.
type overlay struct {
	top  fs.FS
	base fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	if f, err := o.top.Open(name); err == nil {
		return f, nil
	}
	return o.base.Open(name)
}
