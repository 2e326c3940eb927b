// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// commandRunner abstracts subprocess execution so tests can avoid a real
// gemini binary.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, err error)
}

// execRunner is the production runner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		if errBuf.Len() > 0 {
			return "", errors.New(strings.TrimSpace(errBuf.String()))
		}
		return "", err
	}
	return out.String(), nil
}

// GeminiProvider shells out to the gemini CLI. The system context is
// prepended to the prompt since the CLI takes a single prompt argument.
type GeminiProvider struct {
	Model  string
	runner commandRunner
}

// NewGeminiProvider returns a provider for the given model.
func NewGeminiProvider(model string) *GeminiProvider {
	if model == "" {
		model = "gemini-pro"
	}
	return &GeminiProvider{Model: model, runner: execRunner{}}
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return "gemini" }

// Invoke runs one gemini CLI call. A missing binary is fatal; nonzero
// exits and timeouts are transient.
func (p *GeminiProvider) Invoke(ctx context.Context, prompt, system string) (string, error) {
	full := prompt
	if system != "" {
		full = system + "\n\n" + prompt
	}

	out, err := p.runner.Run(ctx, "gemini", "-m", p.Model, "--prompt", full)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", FatalFault("gemini CLI not found on PATH", err)
		}
		if ctx.Err() != nil {
			return "", TransientFault("gemini CLI timed out", ctx.Err())
		}
		return "", TransientFault("gemini CLI failed", err)
	}
	return strings.TrimSpace(out), nil
}
