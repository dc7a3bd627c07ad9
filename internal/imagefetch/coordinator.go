// Package imagefetch requests illustrations from the image backend and
// caches them as files in the edition directory.
package imagefetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"kidsnews/internal/llm"
	"kidsnews/internal/logging"
	"kidsnews/internal/record"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAspectRatio = "16:9"
	DefaultWorkers     = 3
	// DefaultSetPrefix keeps independently generated set members consistent.
	DefaultSetPrefix = "Same character, cartoon style, "
)

// Options configures a Coordinator. Zero fields take the defaults above.
type Options struct {
	AspectRatio string
	Workers     int
	SetPrefix   string
}

// Coordinator fetches single images and small image sets.
type Coordinator struct {
	backend llm.ImageBackend
	opts    Options
	log     *zap.Logger
}

// New creates a Coordinator.
func New(backend llm.ImageBackend, opts Options, log *zap.Logger) *Coordinator {
	if backend == nil {
		backend = llm.Unavailable{}
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = DefaultAspectRatio
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.SetPrefix == "" {
		opts.SetPrefix = DefaultSetPrefix
	}
	return &Coordinator{backend: backend, opts: opts, log: logging.Get(log, logging.CategoryImages)}
}

// SetFileName names the i-th member of an image set.
func SetFileName(i int) string {
	return fmt.Sprintf("emotion_%d.png", i)
}

// FetchOne makes sure dir/name exists. An existing file is a cache hit and
// costs no backend call. A backend failure is logged and reported as false;
// there is no retry.
func (c *Coordinator) FetchOne(ctx context.Context, prompt, name, dir string) bool {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		c.log.Debug("image cached", zap.String("file", name))
		return true
	}

	c.log.Info("generating image", zap.String("file", name))
	data, err := c.backend.GenerateImage(ctx, prompt, c.opts.AspectRatio)
	if err != nil {
		c.log.Error("image generation failed", zap.String("file", name), zap.Error(err))
		return false
	}
	if err := record.WriteFileAtomic(path, data, 0o644); err != nil {
		c.log.Error("failed to save image", zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

// FetchSet fetches one image per prompt with at most Workers in flight.
// Each prompt gets the set prefix and the i-th file is SetFileName(i).
// A failed member does not stop the others. The returned slice reports
// success per index.
func (c *Coordinator) FetchSet(ctx context.Context, prompts []string, dir string) []bool {
	ok := make([]bool, len(prompts))
	if len(prompts) == 0 {
		return ok
	}
	c.log.Info("generating image set", zap.Int("count", len(prompts)), zap.Int("workers", c.opts.Workers))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, prompt := range prompts {
		i, prompt := i, prompt
		g.Go(func() error {
			ok[i] = c.FetchOne(ctx, c.opts.SetPrefix+prompt, SetFileName(i), dir)
			return nil
		})
	}
	_ = g.Wait()
	return ok
}
