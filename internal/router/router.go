// Package router decides whether and where a request is sent, runs the
// provider, and turns the result into advisory output or a fallback notice.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/classify"
	"github.com/ashwch/aiarch/internal/config"
	"github.com/ashwch/aiarch/internal/hook"
	"github.com/ashwch/aiarch/internal/knowledge"
	"github.com/ashwch/aiarch/internal/provider"
	"github.com/ashwch/aiarch/internal/safety"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry identifies how a request reached the router.
type Entry string

const (
	EntryExplicit Entry = "explicit"
	EntryImplicit Entry = "implicit"
)

type Outcome string

const (
	// OutcomeSilent means nothing happened and nothing should be printed.
	OutcomeSilent Outcome = "silent"
	// OutcomeNotInvoked means the target is the built-in assistant or off.
	OutcomeNotInvoked Outcome = "not_invoked"
	OutcomeFailed     Outcome = "failed"
	OutcomeEmpty      Outcome = "empty"
	OutcomeOutput     Outcome = "output"
)

const maxDiagnosticLength = 2000

type Decision struct {
	Entry      Entry
	Outcome    Outcome
	Category   classify.Category
	Target     string
	RunID      string
	Status     int
	Output     string
	Diagnostic string
}

// Fallback reports whether the built-in assistant should proceed as primary.
func (d Decision) Fallback() bool {
	return d.Outcome == OutcomeFailed || d.Outcome == OutcomeEmpty
}

// Runner executes a named provider. *provider.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, name, prompt, root string, mode provider.Mode) provider.Result
}

// Recorder persists routing events. *hook.Journal satisfies it.
type Recorder interface {
	Record(ev hook.Event) error
}

type Router struct {
	cfg      config.Config
	root     string
	runner   Runner
	recorder Recorder
	logger   *zap.Logger
}

type Option func(*Router)

func WithRunner(runner Runner) Option {
	return func(r *Router) { r.runner = runner }
}

func WithRecorder(recorder Recorder) Option {
	return func(r *Router) { r.recorder = recorder }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(cfg config.Config, root string, opts ...Option) *Router {
	r := &Router{cfg: cfg, root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.runner == nil {
		r.runner = provider.NewExecutor(cfg, r.logger)
	}
	return r
}

type ExplicitRequest struct {
	Category classify.Category
	// Provider overrides the configured target when set.
	Provider string
	Prompt   string
	// Mode selects the provider parameter bundle; empty means explicit.
	Mode provider.Mode
}

// Explicit routes a request whose category the caller chose.
func (r *Router) Explicit(ctx context.Context, req ExplicitRequest) Decision {
	target := strings.TrimSpace(req.Provider)
	if target == "" {
		target = r.cfg.Target(req.Category)
	}
	decision := Decision{Entry: EntryExplicit, Category: req.Category, Target: target}
	if config.IsSentinel(target) {
		decision.Outcome = OutcomeNotInvoked
		r.logger.Info("no external provider invoked", zap.String("category", string(req.Category)), zap.String("target", target))
		return decision
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = fmt.Sprintf("Provide %s guidance based on the current project.", req.Category)
	}
	mode := req.Mode
	if mode == "" {
		mode = provider.ModeExplicit
	}
	return r.invoke(ctx, decision, prompt, mode)
}

// Implicit classifies free text and routes it when routing applies. Every
// reason not to route yields OutcomeSilent.
func (r *Router) Implicit(ctx context.Context, prompt string) Decision {
	decision := Decision{Entry: EntryImplicit, Outcome: OutcomeSilent}
	category, ok := classify.Classify(prompt)
	if !ok {
		r.logger.Debug("prompt not classified")
		return decision
	}
	decision.Category = category
	if !r.cfg.Implicit {
		r.logger.Debug("implicit routing disabled", zap.String("category", string(category)))
		return decision
	}
	decision.Target = r.cfg.Target(category)
	if config.IsSentinel(decision.Target) {
		r.logger.Debug("implicit target is not external", zap.String("category", string(category)), zap.String("target", decision.Target))
		return decision
	}
	return r.invoke(ctx, decision, prompt, provider.ModeImplicit)
}

func (r *Router) invoke(ctx context.Context, decision Decision, prompt string, mode provider.Mode) Decision {
	decision.RunID = uuid.NewString()
	log := r.logger.With(
		zap.String("run_id", decision.RunID),
		zap.String("entry", string(decision.Entry)),
		zap.String("category", string(decision.Category)),
		zap.String("provider", decision.Target),
	)

	result := r.runner.Execute(ctx, decision.Target, knowledge.BuildPrompt(decision.Category, prompt), r.root, mode)
	decision.Status = result.Status
	switch {
	case !result.OK():
		decision.Outcome = OutcomeFailed
		decision.Diagnostic = safety.Diagnostic(result.Error, maxDiagnosticLength)
		log.Warn("provider failed, falling back", zap.Int("status", result.Status))
	case strings.TrimSpace(result.Output) == "":
		decision.Outcome = OutcomeEmpty
		log.Warn("provider produced no output, falling back")
	default:
		decision.Outcome = OutcomeOutput
		decision.Output = result.Output
		log.Info("provider output accepted", zap.Int("output_bytes", len(result.Output)))
	}

	if r.recorder != nil {
		ev := hook.Event{
			RunID:      decision.RunID,
			Entry:      string(decision.Entry),
			Category:   string(decision.Category),
			Provider:   decision.Target,
			Mode:       string(mode),
			Outcome:    string(decision.Outcome),
			Status:     decision.Status,
			Diagnostic: decision.Diagnostic,
			Root:       r.root,
		}
		if err := r.recorder.Record(ev); err != nil {
			log.Warn("could not journal routing event", zap.Error(err))
		}
	}
	return decision
}
