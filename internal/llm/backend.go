// Package llm defines the generative backends the newspaper depends on and
// provides the Gemini implementation.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when no backend is configured.
	ErrUnavailable = errors.New("generative backend unavailable")
	// ErrNoImage is returned when the image backend answered without an image.
	ErrNoImage = errors.New("image backend returned no image")
)

// TextBackend completes a prompt in structured (JSON) response mode and
// returns the raw text. Callers must not trust the shape of the text.
type TextBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageBackend generates a single image and returns its encoded bytes.
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
}

// Backend is a client that serves both text and images.
type Backend interface {
	TextBackend
	ImageBackend
}

// Unavailable is a Backend that fails every call. It stands in for the real
// client when it could not be constructed, so the pipeline still runs and
// degrades instead of aborting.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Cause)
}

// Complete always fails.
func (u Unavailable) Complete(context.Context, string) (string, error) {
	return "", u.err()
}

// GenerateImage always fails.
func (u Unavailable) GenerateImage(context.Context, string, string) ([]byte, error) {
	return nil, u.err()
}
