// Package translate turns text between Spanish and English. It prefers an
// external inference backend and absorbs backend failures into a fixed
// bilingual phrase table, so translation of non-empty input never fails
// once the model file is present.
package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/habla-dev/habla/pkg/logger"
)

// System instructions embedded in the prompt, selected by direction.
const (
	esToEnInstruction = "You are a professional translator. Translate the following Spanish text to English. Only provide the translation, nothing else."
	enToEsInstruction = "You are a professional translator. Translate the following English text to Spanish. Only provide the translation, nothing else."
)

// Runner invokes an external text-generation backend.
type Runner interface {
	Generate(ctx context.Context, modelPath, prompt string, contextSize int) (string, error)
}

// Engine is the translation engine.
type Engine struct {
	modelPath   string
	contextSize int
	runner      Runner
	logger      *logger.Logger
}

// NewEngine creates a translation engine backed by the given runner.
func NewEngine(modelPath string, contextSize int, runner Runner, log *logger.Logger) *Engine {
	if contextSize <= 0 {
		contextSize = 2048
	}
	return &Engine{
		modelPath:   modelPath,
		contextSize: contextSize,
		runner:      runner,
		logger:      log.Named("translate"),
	}
}

// Translate translates the request text. Empty or whitespace-only input
// returns an empty result without consulting any backend. A missing model
// file is the only fatal condition; backend failures fall back to the
// phrase table.
func (e *Engine) Translate(ctx context.Context, req Request) (*Result, error) {
	trimmed := strings.TrimSpace(req.Text)
	if trimmed == "" {
		return &Result{Text: "", Source: SourceNone}, nil
	}

	if _, err := os.Stat(e.modelPath); err != nil {
		return nil, &ModelNotFoundError{Path: e.modelPath}
	}

	e.logger.Info("Translating",
		logger.String("direction", req.Direction.String()),
		logger.String("text", trimmed))

	prompt := buildPrompt(req.Direction, trimmed)

	output, err := e.runner.Generate(ctx, e.modelPath, prompt, e.contextSize)
	if err == nil {
		if text := strings.TrimSpace(output); text != "" {
			e.logger.Info("Translation completed",
				logger.String("source", string(SourceModel)),
				logger.String("translated", text))
			return &Result{Text: text, Source: SourceModel}, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	} else {
		e.logger.Warn("Inference backend unavailable, using fallback phrase table", logger.Error(err))
	}

	text := lookupFallback(req.Direction, req.Text)
	e.logger.Info("Translation completed",
		logger.String("source", string(SourceDictionary)),
		logger.String("translated", text))
	return &Result{Text: text, Source: SourceDictionary}, nil
}

// buildPrompt assembles the turn-delimited prompt for the inference backend.
func buildPrompt(dir Direction, text string) string {
	instruction := enToEsInstruction
	if dir == EsToEn {
		instruction = esToEnInstruction
	}
	return fmt.Sprintf(
		"<start_of_turn>system\n%s\n<end_of_turn>\n<start_of_turn>user\n%s\n<end_of_turn>\n<start_of_turn>model\n",
		instruction, text,
	)
}
