package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kidsnews/internal/activity"
	"kidsnews/internal/decode"
	"kidsnews/internal/imagefetch"
	"kidsnews/internal/preview"
	"kidsnews/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	layoutOut   string
	layoutWatch bool
	layoutLive  bool
)

// layoutCmd renders every activity layout for template work
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Render every activity layout from sample data",
	Long: `Renders page one and page two for every activity kind into a preview
directory, plus an index.html linking them all.

Sample data is built in, so no API key is needed. With --live each activity
is generated by the model instead.

With --templates, files in that directory override the built-in templates
by name (page1 layout, page2 layout, style.css, activities/<kind>.html).
Add --watch to re-render whenever one of them changes.

Examples:
  kidsnews layout
  kidsnews layout --templates ./my-templates --watch`,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutOut, "out", "o", "preview", "Preview output directory")
	layoutCmd.Flags().StringVar(&templatesDir, "templates", "", "Directory of template overrides")
	layoutCmd.Flags().BoolVar(&layoutWatch, "watch", false, "Re-render when templates change (requires --templates)")
	layoutCmd.Flags().BoolVar(&layoutLive, "live", false, "Generate activities with the model instead of samples")
}

// runLayout writes the layout preview.
func runLayout(cmd *cobra.Command, args []string) error {
	if layoutWatch && templatesDir == "" {
		return fmt.Errorf("--watch needs --templates")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !layoutWatch {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	renderer, err := render.New(templatesDir, logger)
	if err != nil {
		return err
	}
	builder := &preview.Builder{
		Renderer: renderer,
		Meta:     preview.DefaultMeta,
		Log:      logger,
	}
	builder.Meta.PaperName = cfg.Newspaper.Name

	if layoutLive {
		backend := newBackend(ctx)
		builder.Activities = activity.NewDispatcher(backend, decode.Decoder{Repair: cfg.Gemini.RepairJSON}, logger)
		builder.Images = imagefetch.New(backend, imagefetch.Options{
			AspectRatio: cfg.Gemini.AspectRatio,
			Workers:     cfg.Images.Workers,
			SetPrefix:   cfg.Images.SetPrefix,
		}, logger)
	}

	build := func() error {
		built, err := builder.Build(ctx, layoutOut)
		if err != nil {
			return err
		}
		fmt.Printf("Rendered %d layouts into %s\n", len(built), layoutOut)
		return nil
	}
	if err := build(); err != nil {
		return err
	}
	if !layoutWatch {
		return nil
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", templatesDir)
	return preview.Watch(ctx, templatesDir, preview.DefaultDebounce, logger, func() error {
		logger.Info("templates changed, re-rendering", zap.String("out", layoutOut))
		return build()
	})
}
