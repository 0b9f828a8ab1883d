package translate

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/habla-dev/habla/internal/probe"
	"github.com/habla-dev/habla/pkg/logger"
)

// Generation parameters passed to the inference executable.
const (
	maxGeneratedTokens = 256
	samplingTemp       = "0.1"
	batchSize          = "1"
)

// modelTurnMarker delimits the model's portion of the echoed prompt in the
// subprocess output.
const modelTurnMarker = "<start_of_turn>model"

// llamaExecutables are the candidate executable names, tried in order.
var llamaExecutables = []string{"llama", "llama-cli", "main", "./llama.cpp/main"}

// LlamaRunner invokes a llama.cpp style executable as a subprocess and
// scrapes the generated text from its stdout.
type LlamaRunner struct {
	executables []string
	logger      *logger.Logger
}

// NewLlamaRunner creates a subprocess runner.
func NewLlamaRunner(log *logger.Logger) *LlamaRunner {
	return &LlamaRunner{
		executables: llamaExecutables,
		logger:      log.Named("llama"),
	}
}

// Generate runs the first working executable candidate and returns the text
// following the model turn marker. No timeout is enforced here; callers that
// need one pass it via ctx.
func (r *LlamaRunner) Generate(ctx context.Context, modelPath, prompt string, contextSize int) (string, error) {
	attempts := make([]probe.Attempt[string], 0, len(r.executables))
	for _, exe := range r.executables {
		exe := exe
		attempts = append(attempts, probe.Attempt[string]{
			Name: exe,
			Run: func(ctx context.Context) (string, error) {
				return r.runExecutable(ctx, exe, modelPath, prompt, contextSize)
			},
		})
	}

	output, exe, err := probe.First(ctx, attempts)
	if err != nil {
		return "", fmt.Errorf("no working inference executable: %w", err)
	}

	r.logger.Debug("Inference subprocess succeeded", logger.String("executable", exe))
	return output, nil
}

func (r *LlamaRunner) runExecutable(ctx context.Context, exe, modelPath, prompt string, contextSize int) (string, error) {
	cmd := exec.CommandContext(ctx, exe,
		"-m", modelPath,
		"-p", prompt,
		"-c", strconv.Itoa(contextSize),
		"-n", strconv.Itoa(maxGeneratedTokens),
		"--temp", samplingTemp,
		"-b", batchSize,
	)

	stdout, err := cmd.Output()
	if err != nil {
		r.logger.Debug("Inference executable failed",
			logger.String("executable", exe),
			logger.Error(err))
		return "", err
	}

	text := ExtractModelOutput(string(stdout))
	if text == "" {
		return "", fmt.Errorf("no text after model turn marker in output of %s", exe)
	}
	return text, nil
}

// ExtractModelOutput returns the trimmed portion of subprocess output
// following the model turn marker and its next newline. Output lacking the
// marker, or with nothing after it, yields an empty string.
func ExtractModelOutput(output string) string {
	markerIdx := strings.Index(output, modelTurnMarker)
	if markerIdx == -1 {
		return ""
	}
	rest := output[markerIdx:]
	newlineIdx := strings.Index(rest, "\n")
	if newlineIdx == -1 {
		return ""
	}
	return strings.TrimSpace(rest[newlineIdx+1:])
}
