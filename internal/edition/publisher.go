package edition

import (
	"context"
	"fmt"
	"os"
	"time"

	"kidsnews/internal/activity"
	"kidsnews/internal/archive"
	"kidsnews/internal/capture"
	"kidsnews/internal/logging"
	"kidsnews/internal/pipeline"
	"kidsnews/internal/record"
	"kidsnews/internal/render"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageFetcher is the stage-three image source.
type ImageFetcher interface {
	FetchOne(ctx context.Context, prompt, name, dir string) bool
	FetchSet(ctx context.Context, prompts []string, dir string) []bool
}

// PageRenderer writes page1.html and page2.html.
type PageRenderer interface {
	RenderTo(rec *record.Record, meta render.Meta, dir string) error
}

// PageCapturer rasterizes rendered pages.
type PageCapturer interface {
	CapturePages(ctx context.Context, dir string, htmlFiles ...string) []string
}

// Ledger numbers and records issues.
type Ledger interface {
	Backfill(ctx context.Context, dates []string) error
	Reserve(ctx context.Context, date string) (int, error)
	Complete(ctx context.Context, issue archive.Issue) error
}

// Publisher runs a full publish. Capturer and Ledger are optional.
type Publisher struct {
	DocsDir    string
	PaperName  string
	Articles   pipeline.ArticleWriter
	Activities pipeline.ActivityDispatcher
	Images     ImageFetcher
	Renderer   PageRenderer
	Capturer   PageCapturer
	Ledger     Ledger
	Log        *zap.Logger
}

// Request is one publish invocation.
type Request struct {
	Date        time.Time
	ManualTopic string
	ForcedKind  activity.Kind
	ForceNew    bool
	Capture     bool
}

// Report summarizes a publish.
type Report struct {
	RunID       string
	Edition     Edition
	Outcome     *pipeline.Outcome
	IssueNumber int
	IssueLabel  string
	Rendered    bool
	Captured    []string
	Merged      string
}

// Publish runs every stage for req.Date. Only record persistence errors
// abort the run; later stages degrade and are logged.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Report, error) {
	ed := New(p.DocsDir, req.Date)
	report := &Report{RunID: uuid.NewString(), Edition: ed}
	log := logging.WithRunID(logging.Get(p.Log, logging.CategoryEdition), report.RunID)
	log.Info("publishing edition", zap.String("date", ed.Name()), zap.String("day", ed.DayLabel()))

	if err := os.MkdirAll(ed.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create edition directory: %w", err)
	}

	timer := logging.StartTimer(log, "content stages")
	orch := pipeline.NewOrchestrator(ed.Store(), p.Articles, p.Activities, logging.WithRunID(p.logger(), report.RunID))
	out, err := orch.Run(ctx, pipeline.Options{
		DayLabel:    ed.DayLabel(),
		ManualTopic: req.ManualTopic,
		ForcedKind:  req.ForcedKind,
		ForceNew:    req.ForceNew,
	})
	if err != nil {
		return nil, err
	}
	timer.StopWithInfo()
	report.Outcome = out
	rec := out.Record

	report.IssueNumber = p.issueNumber(ctx, ed, log)
	report.IssueLabel = archive.IssueLabel(report.IssueNumber)

	if p.Images != nil {
		FetchImages(ctx, p.Images, rec, ed.Dir(), log)
	}

	meta := render.Meta{
		PaperName:  p.PaperName,
		Date:       ed.DisplayDate(),
		Day:        ed.DayLabel(),
		IssueLabel: report.IssueLabel,
	}
	if err := p.Renderer.RenderTo(rec, meta, ed.Dir()); err != nil {
		log.Error("rendering failed, skipping capture", zap.Error(err))
	} else {
		report.Rendered = true
	}

	if report.Rendered && req.Capture && p.Capturer != nil {
		report.Captured = p.Capturer.CapturePages(ctx, ed.Dir(), render.Page1File, render.Page2File)
		if len(report.Captured) == 2 {
			merged := ed.Path(capture.MergedFile)
			if err := capture.Merge(report.Captured, merged); err != nil {
				log.Error("merge failed", zap.Error(err))
			} else {
				report.Merged = merged
				log.Info("newspaper published", zap.String("file", merged))
			}
		} else {
			log.Warn("both pages were not captured, skipping merge", zap.Int("captured", len(report.Captured)))
		}
	}

	if p.Ledger != nil {
		if err := p.Ledger.Complete(ctx, archive.Issue{
			Date:         ed.Name(),
			Topic:        rec.CleanTopic(),
			Headline:     rec.Headline(),
			ActivityType: string(rec.ActivityType),
			RunID:        report.RunID,
			Captured:     report.Merged != "",
		}); err != nil {
			log.Warn("failed to record issue in ledger", zap.Error(err))
		}
	}

	if report.Rendered {
		if err := WriteIndex(ed); err != nil {
			log.Warn("failed to update index", zap.Error(err))
		}
	}
	return report, nil
}

func (p *Publisher) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// issueNumber consults the ledger, backfilled from the edition directories.
// Without a working ledger the directories alone decide.
func (p *Publisher) issueNumber(ctx context.Context, ed Edition, log *zap.Logger) int {
	dates, err := ListDates(p.DocsDir)
	if err != nil {
		log.Warn("failed to list editions", zap.Error(err))
	}
	fromDirs := CountUpTo(dates, ed.Name())

	if p.Ledger == nil {
		return fromDirs
	}
	if err := p.Ledger.Backfill(ctx, dates); err != nil {
		log.Warn("ledger backfill failed", zap.Error(err))
		return fromDirs
	}
	n, err := p.Ledger.Reserve(ctx, ed.Name())
	if err != nil {
		log.Warn("ledger reserve failed", zap.Error(err))
		return fromDirs
	}
	return n
}

// FetchImages runs stage three into dir: the article illustration plus
// whatever the activity variant needs. Failures are logged by images and
// leave the file missing.
func FetchImages(ctx context.Context, images ImageFetcher, rec *record.Record, dir string, log *zap.Logger) {
	if rec.Page1 != nil && rec.Page1.ImagePrompt != "" {
		images.FetchOne(ctx, rec.Page1.ImagePrompt, render.ArticleImageFile, dir)
	}

	switch a := rec.ActivityData.(type) {
	case activity.EmotionGuess:
		ok := images.FetchSet(ctx, a.FacePrompts(), dir)
		failed := 0
		for _, v := range ok {
			if !v {
				failed++
			}
		}
		if failed > 0 {
			log.Warn("some emotion images are missing", zap.Int("failed", failed), zap.Int("total", len(ok)))
		}
	case activity.Illustrated:
		if prompt := a.IllustrationPrompt(); prompt != "" {
			images.FetchOne(ctx, prompt, render.ActivityImageFile, dir)
		}
	}
}
