// Package pipeline drives the two content stages over the persisted record:
// stage one writes the article, stage two generates the activity, and the
// record is saved once stage two has run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"kidsnews/internal/activity"
	"kidsnews/internal/logging"
	"kidsnews/internal/record"

	"go.uber.org/zap"
)

// ArticleWriter runs stage one.
type ArticleWriter interface {
	Generate(ctx context.Context, dayLabel, manualTopic string) *record.Record
}

// ActivityDispatcher runs stage two.
type ActivityDispatcher interface {
	Dispatch(ctx context.Context, kind activity.Kind, topic, body string) activity.Result
}

// Options are the per-run inputs.
type Options struct {
	// DayLabel selects the weekday theme, e.g. "Thursday".
	DayLabel string
	// ManualTopic replaces the weekday theme when set.
	ManualTopic string
	// ForcedKind overrides the model's activity choice when set.
	ForcedKind activity.Kind
	// ForceNew discards the stored record and every edition artifact.
	ForceNew bool
}

// Outcome reports what a run did.
type Outcome struct {
	Record *record.Record
	// Loaded is the state found on disk before any generation.
	Loaded record.State
	// RanArticle and RanActivity report which stages executed.
	RanArticle  bool
	RanActivity bool
	// Saved is true when the record was written during this run.
	Saved bool
	// Fallback is set when stage two substituted free-response.
	Fallback bool
	// ArticleMissing is set when the record has no usable article, either
	// because stage one degraded now or on the run that stored it.
	ArticleMissing bool
}

// Orchestrator owns the record state machine.
type Orchestrator struct {
	store      record.Store
	articles   ArticleWriter
	activities ActivityDispatcher
	log        *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(store record.Store, articles ArticleWriter, activities ActivityDispatcher, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		articles:   articles,
		activities: activities,
		log:        logging.Get(log, logging.CategoryPipeline),
	}
}

// Run brings the record to the complete state. Generation failures degrade
// the content; only store I/O errors are returned.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.ForceNew {
		o.log.Info("discarding stored edition")
		if err := o.store.Purge(); err != nil {
			return nil, err
		}
	}

	rec, err := o.load()
	if err != nil {
		return nil, err
	}
	out := &Outcome{Loaded: rec.State()}

	if rec != nil && opts.ManualTopic != "" && rec.SelectedTopic != opts.ManualTopic {
		o.log.Info("manual topic differs from stored record, regenerating",
			zap.String("stored", rec.SelectedTopic),
			zap.String("topic", opts.ManualTopic))
		if err := o.store.Purge(); err != nil {
			return nil, err
		}
		rec = nil
	}

	if rec == nil {
		o.log.Info("stage 1: writing article", zap.String("day", opts.DayLabel))
		rec = o.articles.Generate(ctx, opts.DayLabel, opts.ManualTopic)
		if rec == nil {
			rec = &record.Record{}
		}
		if !rec.HasArticle() {
			o.log.Warn("article generation degraded, continuing without an article")
		}
		if rec.ActivityType == "" {
			rec.ActivityType = activity.KindFreeResponse
		}
		if opts.ForcedKind != "" {
			o.log.Info("forcing activity kind", zap.String("model_choice", string(rec.ActivityType)), zap.String("kind", string(opts.ForcedKind)))
			rec.ActivityType = opts.ForcedKind
		}
		out.RanArticle = true
	} else if opts.ForcedKind != "" && rec.Requested() != opts.ForcedKind {
		// Requested, not ActivityType: a kind that fell back to
		// free-response was still asked for and must not regenerate.
		o.log.Info("activity kind changed, discarding activity data",
			zap.String("from", string(rec.Requested())),
			zap.String("to", string(opts.ForcedKind)))
		rec.ActivityType = opts.ForcedKind
		rec.ClearActivity()
	}

	if rec.ActivityData == nil {
		o.log.Info("stage 2: generating activity", zap.String("kind", string(rec.ActivityType)))
		res := o.activities.Dispatch(ctx, rec.ActivityType, rec.Headline(), rec.Body())
		rec.SetActivity(res.Activity)
		out.RanActivity = true
		out.Fallback = res.Fallback

		if err := o.store.Save(rec); err != nil {
			return nil, err
		}
		out.Saved = true
	} else {
		o.log.Info("record complete, reusing stored content", zap.String("kind", string(rec.ActivityType)))
	}

	out.Record = rec
	out.ArticleMissing = !rec.HasArticle()
	return out, nil
}

func (o *Orchestrator) load() (*record.Record, error) {
	if !o.store.Exists() {
		return nil, nil
	}
	rec, err := o.store.Load()
	if errors.Is(err, record.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stored record: %w", err)
	}
	return rec, nil
}
