package activity

import (
	"context"
	"fmt"

	"kidsnews/internal/decode"
	"kidsnews/internal/llm"

	"go.uber.org/zap"
)

// MaxHiddenObjects caps the hidden-objects item list.
const MaxHiddenObjects = 5

// Request carries the stage-one output an adapter builds on.
type Request struct {
	Topic string
	Body  string
}

// adapter produces one kind's variant.
type adapter func(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error)

// Generator owns the text backend and decoding policy shared by adapters.
type Generator struct {
	backend llm.TextBackend
	decoder decode.Decoder
	log     *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(backend llm.TextBackend, decoder decode.Decoder, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if backend == nil {
		backend = llm.Unavailable{}
	}
	return &Generator{backend: backend, decoder: decoder, log: log}
}

// complete sends the kind's prompt and decodes the reply. A backend failure
// is returned as an error; a bad reply is a low-confidence Result.
func (g *Generator) complete(ctx context.Context, kind Kind, req Request) (decode.Result, error) {
	g.log.Info("generating activity data", zap.String("kind", string(kind)), zap.String("topic", req.Topic))
	raw, err := g.backend.Complete(ctx, buildPrompt(kind, req))
	if err != nil {
		return decode.Result{}, fmt.Errorf("%s completion: %w", kind, err)
	}
	res := g.decoder.Decode(raw)
	if res.LowConfidence() {
		g.log.Warn("activity reply decoded to an empty object",
			zap.String("kind", string(kind)),
			zap.String("reason", res.Reason))
	}
	return res, nil
}

// =============================================================================
// PER-KIND ADAPTERS
// =============================================================================

func generateTrueFalse(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindTrueFalseQuiz, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return trueFalseFrom(res.Object), res.Status, nil
}

func generateHiddenObjects(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindHiddenObjects, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return hiddenObjectsFrom(res.Object), res.Status, nil
}

func generateInitialQuiz(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindInitialConsonantQuiz, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return initialQuizFrom(res.Object), res.Status, nil
}

func generateEmotionGuess(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindEmotionGuess, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return emotionGuessFrom(res.Object), res.Status, nil
}

func generateColoring(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindColoringPage, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return coloringFrom(res.Object), res.Status, nil
}

func generateComic(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindFourPanelComic, req)
	if err != nil {
		return nil, decode.StatusEmpty, err
	}
	return comicFrom(res.Object), res.Status, nil
}

// generateFreeResponse is the terminal fallback: it never returns an error.
func generateFreeResponse(ctx context.Context, g *Generator, req Request) (Activity, decode.Status, error) {
	res, err := g.complete(ctx, KindFreeResponse, req)
	if err != nil {
		g.log.Error("free-response generation failed", zap.Error(err))
		return FreeResponse{}, decode.StatusEmpty, nil
	}
	return freeResponseFrom(res.Object), res.Status, nil
}
