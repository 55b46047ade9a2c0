package interpreter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/pharmaline-backend/internal/command"
	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/pharmaline-backend/pkg/errors"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
	"github.com/angelmondragon/pharmaline-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// EmptyInputReply answers blank input.
const EmptyInputReply = "What do you want to do?"

// ParseFailureReply answers input that survived neither the classifier nor
// the repair attempt.
const ParseFailureReply = `I couldn't parse that. Try: "add 10 panadol expiring 14-12-2027" or "remove 5 panadol".`

const repairPromptPrefix = `Return ONLY valid JSON matching schema {"action":"...","name":"...","quantity":123,"expiry":"DD-MM-YYYY","price":12.34}. No extra text.

Input:
`

// Classifier turns free text into the structured command JSON. ClassifyCommand
// applies the standing instruction prompt; Generate sends a raw prompt and is
// used for the single repair retry.
type Classifier interface {
	ClassifyCommand(ctx context.Context, input string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Interpreter is the chat boundary: free text in, operator reply out. The
// returned error is non-nil only when infrastructure (the ledger) failed;
// every linguistic failure becomes a reply string.
type Interpreter interface {
	Handle(ctx context.Context, input string) (string, error)
}

type interpreter struct {
	exec       inventory.Executor
	classifier Classifier
	logg       *logger.Logger
	metrics    *metrics.CommandMetrics
}

// NewInterpreter wires the two-tier command interpreter. Metrics may be nil.
func NewInterpreter(exec inventory.Executor, classifier Classifier, logg *logger.Logger, m *metrics.CommandMetrics) (Interpreter, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &interpreter{exec: exec, classifier: classifier, logg: logg, metrics: m}, nil
}

func (i *interpreter) Handle(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return EmptyInputReply, nil
	}

	// deterministic tier first; no classifier round trip for common shapes
	if fast := command.ParseFastPath(input); fast != nil {
		return i.execute(ctx, fast)
	}

	cmd, classifyErr := i.classify(ctx, input)
	if classifyErr == nil {
		return i.execute(ctx, cmd)
	}

	cmd, repairErr := i.repair(ctx, input)
	if repairErr == nil {
		return i.execute(ctx, cmd)
	}

	combined := multierr.Combine(classifyErr, repairErr)
	i.logg.Warn(i.logg.WithField(ctx, "error", combined.Error()), "command interpretation failed")
	return ParseFailureReply, nil
}

func (i *interpreter) classify(ctx context.Context, input string) (*command.Command, error) {
	start := time.Now()
	raw, err := i.classifier.ClassifyCommand(ctx, input)
	i.metrics.ObserveClassifierDuration("initial", time.Since(start))
	if err != nil {
		i.metrics.IncClassifier("initial", "upstream_error")
		return nil, err
	}

	cmd, err := command.DecodeClassifierJSON(raw)
	if err != nil {
		i.metrics.IncClassifier("initial", "parse_error")
		return nil, err
	}
	i.metrics.IncClassifier("initial", "ok")
	return cmd, nil
}

func (i *interpreter) repair(ctx context.Context, input string) (*command.Command, error) {
	start := time.Now()
	raw, err := i.classifier.Generate(ctx, repairPromptPrefix+input)
	i.metrics.ObserveClassifierDuration("repair", time.Since(start))
	if err != nil {
		i.metrics.IncClassifier("repair", "upstream_error")
		return nil, err
	}

	cmd, err := command.DecodeClassifierJSON(raw)
	if err != nil {
		i.metrics.IncClassifier("repair", "parse_error")
		return nil, err
	}
	i.metrics.IncClassifier("repair", "ok")
	return cmd, nil
}

func (i *interpreter) execute(ctx context.Context, cmd *command.Command) (string, error) {
	cmd = command.Normalize(cmd)
	ctx = i.logg.WithCommandAction(ctx, cmd.Action.String())

	reply, err := i.exec.Execute(ctx, cmd)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeLedger {
			i.metrics.IncLedgerFailure()
		}
		i.metrics.IncCommand(cmd.Action.String(), "error")
		i.logg.Error(ctx, "command execution failed", err)
		return "", err
	}

	i.metrics.IncCommand(cmd.Action.String(), "ok")
	return reply, nil
}
