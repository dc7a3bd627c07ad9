package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidsnews/internal/activity"
	"kidsnews/internal/archive"
	"kidsnews/internal/article"
	"kidsnews/internal/capture"
	"kidsnews/internal/decode"
	"kidsnews/internal/edition"
	"kidsnews/internal/imagefetch"
	"kidsnews/internal/llm"
	"kidsnews/internal/logging"
	"kidsnews/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Publish flags, shared by the root command and `publish`.
var (
	forcedKind   activity.Kind
	manualTopic  string
	forceNew     bool
	publishDate  string
	noCapture    bool
	templatesDir string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Generate, render and capture one day's edition",
	Long: `Runs the full pipeline for one edition:
  1. Article: topic from the weekday theme (or --topic), headline, body and sidebars
  2. Activity: the model's choice of page-two activity (or --activity)
  3. Images: article illustration plus whatever the activity needs
  4. Render: page1.html and page2.html
  5. Capture: page screenshots merged into full_newspaper_long.png

Stages whose output is already stored are skipped.

Examples:
  kidsnews publish
  kidsnews publish --activity coloring-page
  kidsnews publish --topic "Why do leaves change color?" --new`,
	RunE: runPublish,
}

func addPublishFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&forcedKind, "activity", "Force the page-two activity ("+activity.KindList()+")")
	cmd.Flags().StringVar(&manualTopic, "topic", "", "Write about this topic instead of the weekday theme")
	cmd.Flags().BoolVar(&forceNew, "new", false, "Discard the stored edition and start over")
	cmd.Flags().StringVar(&publishDate, "date", "", "Edition date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&noCapture, "no-capture", false, "Skip browser capture and merge")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "Directory of template overrides")
}

// runPublish publishes one edition.
func runPublish(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	ed, err := resolveEdition()
	if err != nil {
		return err
	}

	backend := newBackend(ctx)
	decoder := decode.Decoder{Repair: cfg.Gemini.RepairJSON}

	renderer, err := render.New(templatesDir, logger)
	if err != nil {
		return err
	}

	pub := &edition.Publisher{
		DocsDir:    cfg.Output.DocsDir,
		PaperName:  cfg.Newspaper.Name,
		Articles:   article.NewGenerator(backend, decoder, cfg.Newspaper.Name, logger),
		Activities: activity.NewDispatcher(backend, decoder, logger),
		Images: imagefetch.New(backend, imagefetch.Options{
			AspectRatio: cfg.Gemini.AspectRatio,
			Workers:     cfg.Images.Workers,
			SetPrefix:   cfg.Images.SetPrefix,
		}, logger),
		Renderer: renderer,
		Log:      logger,
	}

	if ledger, err := archive.Open(cfg.GetArchivePath()); err != nil {
		logger.Warn("issue ledger unavailable, numbering from edition directories", zap.Error(err))
	} else {
		defer ledger.Close()
		pub.Ledger = ledger
	}

	doCapture := cfg.Capture.Enabled && !noCapture
	if doCapture {
		browser := capture.NewBrowser(captureConfig(), logger)
		defer browser.Shutdown()
		pub.Capturer = browser
	}

	report, err := pub.Publish(ctx, edition.Request{
		Date:        ed.Date,
		ManualTopic: manualTopic,
		ForcedKind:  forcedKind,
		ForceNew:    forceNew,
		Capture:     doCapture,
	})
	if err != nil {
		return fmt.Errorf("publish %s failed: %w", ed.Name(), err)
	}

	printReport(report)
	return nil
}

// resolveEdition picks the edition from --date or today in the paper's zone.
func resolveEdition() (edition.Edition, error) {
	loc := cfg.GetLocation()
	if publishDate != "" {
		return edition.Parse(cfg.Output.DocsDir, publishDate, loc)
	}
	return edition.Today(cfg.Output.DocsDir, loc), nil
}

// newBackend returns the Gemini client, or a backend that fails every call
// so the run degrades instead of aborting.
func newBackend(ctx context.Context) llm.Backend {
	log := logging.Get(logger, logging.CategoryBoot)
	if !cfg.HasAPIKey() {
		log.Warn("no Gemini API key configured (GEMINI_API_KEY), running degraded")
		return llm.Unavailable{}
	}
	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
		Timeout:    cfg.GetGeminiTimeout(),
	}, logger)
	if err != nil {
		log.Error("failed to create Gemini client, running degraded", zap.Error(err))
		return llm.Unavailable{Cause: err}
	}
	return client
}

func captureConfig() capture.Config {
	return capture.Config{
		DebuggerURL:         cfg.Capture.DebuggerURL,
		Bin:                 cfg.Capture.Bin,
		Headless:            cfg.Capture.Headless,
		Width:               cfg.Capture.Width,
		Height:              cfg.Capture.Height,
		Scale:               cfg.Capture.Scale,
		NavigationTimeoutMs: int(cfg.GetNavigationTimeout() / time.Millisecond),
	}
}

func printReport(r *edition.Report) {
	rec := r.Outcome.Record
	fmt.Printf("%s - %s (%s)\n", r.Edition.DisplayDate(), r.IssueLabel, r.Edition.Name())
	fmt.Printf("  Topic:    %s\n", rec.CleanTopic())
	fmt.Printf("  Headline: %s\n", rec.Headline())
	if r.Outcome.ArticleMissing {
		fmt.Println("  Article:  missing, rerun with --new to write it again")
	}
	fmt.Printf("  Activity: %s", rec.ActivityType)
	if requested := rec.Requested(); requested != rec.ActivityType {
		fmt.Printf(" (fallback for %s)", requested)
	} else if r.Outcome.Fallback {
		fmt.Print(" (fallback)")
	}
	fmt.Println()
	fmt.Printf("  Stored:   %s (article generated: %v, activity generated: %v)\n",
		r.Outcome.Loaded, r.Outcome.RanArticle, r.Outcome.RanActivity)
	switch {
	case r.Merged != "":
		fmt.Printf("  Output:   %s\n", r.Merged)
	case r.Rendered:
		fmt.Printf("  Output:   %s\n", r.Edition.Path(render.Page1File))
	default:
		fmt.Println("  Output:   pages were not rendered, see the log")
	}
}
