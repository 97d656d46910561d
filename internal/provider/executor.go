package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ashwch/aiarch/internal/config"
	"go.uber.org/zap"
)

// Result is the uniform outcome of a provider run. Status 0 means success.
// Error holds stderr, or stdout when the tool wrote nothing to stderr.
type Result struct {
	Status int
	Output string
	Error  string
}

func (r Result) OK() bool {
	return r.Status == 0
}

func failure(err error) Result {
	return Result{Status: 1, Error: err.Error()}
}

type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

func NewExecutor(cfg config.Config, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{registry: NewRegistry(cfg), logger: logger}
}

// Execute runs the named provider with prompt from root. Lookup and
// descriptor errors are returned as failed results without starting a process.
func (e *Executor) Execute(ctx context.Context, name, prompt, root string, mode Mode) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	log := e.logger.With(zap.String("provider", name), zap.String("mode", string(mode)))

	desc, err := e.registry.Lookup(name)
	if err != nil {
		log.Warn("provider lookup failed", zap.Error(err))
		return failure(err)
	}

	started := time.Now()
	var result Result
	switch d := desc.(type) {
	case CodexDescriptor:
		result = e.runCodex(ctx, d, prompt, root, mode)
	case GeminiDescriptor:
		result = runProcess(ctx, root, geminiInvocation(d, prompt, mode))
	case CommandDescriptor:
		inv, err := commandInvocation(d, prompt)
		if err != nil {
			result = failure(err)
			break
		}
		result = runProcess(ctx, root, inv)
	default:
		result = failure(fmt.Errorf("%w: %T", ErrUnknownProviderKind, desc))
	}

	log.Debug("provider finished",
		zap.String("kind", desc.Kind()),
		zap.Int("status", result.Status),
		zap.Int("output_bytes", len(result.Output)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result
}

// runCodex points codex at a private last-message file. The file is read
// whatever the exit status and may legitimately never be created.
func (e *Executor) runCodex(ctx context.Context, d CodexDescriptor, prompt, root string, mode Mode) Result {
	tmpDir, err := os.MkdirTemp("", "aiarch-codex-")
	if err != nil {
		return failure(fmt.Errorf("could not create provider temp dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("could not remove provider temp dir", zap.String("dir", tmpDir), zap.Error(err))
		}
	}()

	inv := codexInvocation(d, prompt, mode, lastMessagePath(tmpDir))
	result := runProcess(ctx, root, inv)
	if message := readLastMessage(inv.outputFile); message != "" {
		result.Output = message
	}
	return result
}

func readLastMessage(path string) string {
	if path == "" {
		return ""
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimRightFunc(string(payload), isSpace)
}
