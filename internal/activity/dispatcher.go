package activity

import (
	"context"
	"fmt"

	"kidsnews/internal/decode"
	"kidsnews/internal/llm"
	"kidsnews/internal/logging"

	"go.uber.org/zap"
)

// Result is what Dispatch hands back to the pipeline.
type Result struct {
	Activity Activity
	// Requested is the kind the caller asked for.
	Requested Kind
	// Fallback is true when free-response was substituted.
	Fallback bool
	// Cause explains the fallback, if any.
	Cause error
	// Decode is the decode status of the reply that produced Activity.
	Decode decode.Status
}

// Kind returns the kind of the produced activity.
func (r Result) Kind() Kind {
	return r.Activity.Kind()
}

// Dispatcher routes a Kind to its adapter.
type Dispatcher struct {
	gen      *Generator
	adapters map[Kind]adapter
	log      *zap.Logger
}

// NewDispatcher builds the kind → adapter table.
func NewDispatcher(backend llm.TextBackend, decoder decode.Decoder, log *zap.Logger) *Dispatcher {
	log = logging.Get(log, logging.CategoryActivity)
	return &Dispatcher{
		gen: NewGenerator(backend, decoder, log),
		adapters: map[Kind]adapter{
			KindTrueFalseQuiz:        generateTrueFalse,
			KindHiddenObjects:        generateHiddenObjects,
			KindInitialConsonantQuiz: generateInitialQuiz,
			KindEmotionGuess:         generateEmotionGuess,
			KindColoringPage:         generateColoring,
			KindFourPanelComic:       generateComic,
			KindFreeResponse:         generateFreeResponse,
		},
		log: log,
	}
}

// Dispatch generates activity data for kind. It never fails: an unknown
// kind, an adapter error or an adapter panic all fall back to free-response.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, topic, body string) Result {
	req := Request{Topic: topic, Body: body}

	fn, ok := d.adapters[kind]
	if !ok {
		d.log.Warn("unknown activity kind, using free-response", zap.String("kind", string(kind)))
		return d.fallback(ctx, kind, req, fmt.Errorf("unknown activity kind %q", kind))
	}

	a, status, err := d.run(ctx, fn, req)
	if err != nil {
		if kind == KindFreeResponse {
			d.log.Error("free-response adapter failed", zap.Error(err))
			return Result{Activity: FreeResponse{}, Requested: kind, Cause: err, Decode: decode.StatusEmpty}
		}
		d.log.Error("activity generation failed, falling back to free-response",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return d.fallback(ctx, kind, req, err)
	}
	return Result{Activity: a, Requested: kind, Decode: status}
}

func (d *Dispatcher) fallback(ctx context.Context, requested Kind, req Request, cause error) Result {
	a, status, err := d.run(ctx, d.adapters[KindFreeResponse], req)
	if err != nil {
		d.log.Error("free-response fallback failed", zap.Error(err))
		a, status = FreeResponse{}, decode.StatusEmpty
	}
	return Result{Activity: a, Requested: requested, Fallback: true, Cause: cause, Decode: status}
}

// run invokes fn and converts a panic into an error.
func (d *Dispatcher) run(ctx context.Context, fn adapter, req Request) (a Activity, status decode.Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, status, err = nil, decode.StatusEmpty, fmt.Errorf("adapter panic: %v", r)
		}
	}()
	a, status, err = fn(ctx, d.gen, req)
	if err == nil && a == nil {
		err = fmt.Errorf("adapter returned no activity")
	}
	return a, status, err
}
