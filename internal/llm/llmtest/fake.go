// Package llmtest provides scripted backends for tests.
package llmtest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"time"
)

// Reply is one scripted text completion.
type Reply struct {
	Text string
	Err  error
}

// Text is a scripted llm.TextBackend. When Respond is set it answers every
// call; otherwise Replies are consumed in order and the last one repeats.
type Text struct {
	Respond func(prompt string) (string, error)
	Replies []Reply

	mu      sync.Mutex
	prompts []string
}

// NewText returns a Text that answers with the given raw texts in order.
func NewText(texts ...string) *Text {
	t := &Text{}
	for _, s := range texts {
		t.Replies = append(t.Replies, Reply{Text: s})
	}
	return t
}

// Complete implements llm.TextBackend.
func (t *Text) Complete(ctx context.Context, prompt string) (string, error) {
	t.mu.Lock()
	idx := len(t.prompts)
	t.prompts = append(t.prompts, prompt)
	respond := t.Respond
	var reply Reply
	switch {
	case respond != nil:
	case len(t.Replies) == 0:
		reply = Reply{Err: errors.New("llmtest: no scripted reply")}
	case idx < len(t.Replies):
		reply = t.Replies[idx]
	default:
		reply = t.Replies[len(t.Replies)-1]
	}
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respond != nil {
		return respond(prompt)
	}
	return reply.Text, reply.Err
}

// Calls returns the number of Complete calls.
func (t *Text) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.prompts)
}

// Prompts returns a copy of every prompt received.
func (t *Text) Prompts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.prompts))
	copy(out, t.prompts)
	return out
}

// PNG is a small encoded image returned by Images.
var PNG = func() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 0xff, G: 0xcc, B: 0x00, A: 0xff})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}()

// Images is a stub llm.ImageBackend that records calls and tracks the peak
// number of concurrent requests.
type Images struct {
	// FailWhen marks prompts that should fail.
	FailWhen func(prompt string) bool
	// Delay keeps each call in flight long enough to observe concurrency.
	Delay time.Duration

	mu       sync.Mutex
	prompts  []string
	ratios   []string
	inFlight int
	peak     int
}

// GenerateImage implements llm.ImageBackend.
func (s *Images) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.ratios = append(s.ratios, aspectRatio)
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.FailWhen != nil && s.FailWhen(prompt) {
		return nil, errors.New("llmtest: image generation failed")
	}
	return PNG, nil
}

// Calls returns the number of GenerateImage calls.
func (s *Images) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// Peak returns the highest number of simultaneous calls observed.
func (s *Images) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// Prompts returns a copy of every prompt received.
func (s *Images) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// AspectRatios returns a copy of every aspect ratio received.
func (s *Images) AspectRatios() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ratios))
	copy(out, s.ratios)
	return out
}

// Contains reports whether s contains every substring in subs.
func Contains(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
