package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shipshapehq/shipshape/internal/logger"
	"github.com/shipshapehq/shipshape/internal/model"
	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

// CheckMetadata describes a property check's identity and run semantics.
type CheckMetadata struct {
	// ID is the stable identifier shown in reports.
	ID string

	// Summary is a one-line description of the governed property.
	Summary string

	// Prereq marks a check whose target later checks depend on. If it fails,
	// the remaining checks are recorded as skipped and the run aborts.
	Prereq bool

	// Advisory marks a check whose absent lookup is a warning rather than a
	// failure. Advisory absences never affect the exit code.
	Advisory bool
}

// ErrAlreadySatisfied signals from Apply that the resource reached the
// desired state between the evaluate and apply phases, for example when
// another writer raced the creation. The runner records the check as
// satisfied: no resource was changed by this run.
var ErrAlreadySatisfied = errors.New("already in desired state")

// Check is one governed configuration property with its own read, compare
// and apply logic.
//
// Evaluate is strictly read-only: it fetches the current value and compares
// it to the desired specification. A read that fails because the
// sub-resource is not yet configured must be reported as StateDivergent,
// not as an error.
//
// Apply issues exactly one mutating call carrying the full desired
// specification (replace semantics, never a partial patch). It is only
// invoked when Evaluate reported StateDivergent.
type Check interface {
	Metadata() CheckMetadata
	Evaluate(ctx context.Context) (*model.Evaluation, error)
	Apply(ctx context.Context, eval *model.Evaluation) error
}

// Runner executes an ordered list of checks against a single target
// resource, strictly sequentially, and produces a Report. It never retries:
// a transient provider error surfaces immediately and the operator re-runs
// the whole command, relying on idempotence instead of internal retry logic.
type Runner struct {
	log    *logger.Logger
	dryRun bool
}

// NewRunner creates a runner. With dryRun set, divergent properties are
// reported as would_apply and no mutating call is ever issued.
func NewRunner(log *logger.Logger, dryRun bool) *Runner {
	return &Runner{log: log, dryRun: dryRun}
}

// Run reconciles the target through the given checks in declared order.
//
// The returned report always contains one result per check, including
// skipped entries behind a failed prerequisite. The returned error is
// non-nil only for run-aborting conditions: an authentication failure or a
// failed prerequisite.
func (r *Runner) Run(ctx context.Context, target string, checks []Check) (*model.Report, error) {
	start := time.Now()
	report := &model.Report{Target: target}

	var fatal error
	for _, check := range checks {
		meta := check.Metadata()

		if fatal != nil {
			report.Add(model.CheckResult{
				CheckID:   meta.ID,
				Status:    model.StatusSkipped,
				Message:   "skipped: prerequisite not satisfied",
				Timestamp: time.Now(),
			})
			continue
		}

		res := r.runCheck(ctx, check, meta)
		report.Add(res)

		if res.Error != nil {
			var authErr *shiperrors.AuthError
			if errors.As(res.Error, &authErr) {
				// Authorization is a run-wide precondition, not a
				// per-property concern.
				fatal = res.Error
				continue
			}
			if meta.Prereq {
				fatal = shiperrors.NewPrerequisiteError(meta.ID, res.Error)
			}
		}
	}

	report.Duration = time.Since(start)
	return report, fatal
}

func (r *Runner) runCheck(ctx context.Context, check Check, meta CheckMetadata) model.CheckResult {
	log := r.log.WithCheck(meta.ID)
	start := time.Now()

	finish := func(res model.CheckResult) model.CheckResult {
		res.CheckID = meta.ID
		res.Duration = time.Since(start)
		res.Timestamp = time.Now()
		return res
	}

	log.Debug("evaluating current state")
	eval, err := check.Evaluate(ctx)
	if err != nil {
		log.Error(err, "evaluation failed")
		return finish(model.CheckResult{
			Status:  model.StatusFailed,
			Message: fmt.Sprintf("evaluation failed: %v", err),
			Error:   err,
		})
	}

	switch eval.State {
	case model.StateSatisfied:
		log.Debug("already satisfied")
		return finish(model.CheckResult{
			Status:  model.StatusSatisfied,
			Message: eval.Message,
		})

	case model.StateAbsent:
		if meta.Advisory {
			log.Warn(eval.Message)
			return finish(model.CheckResult{
				Status:   model.StatusAbsent,
				Message:  eval.Message,
				Guidance: eval.Guidance,
			})
		}
		err := fmt.Errorf("%s does not exist", meta.ID)
		if eval.Message != "" {
			err = errors.New(eval.Message)
		}
		log.Error(err, "required resource absent")
		return finish(model.CheckResult{
			Status:  model.StatusFailed,
			Message: eval.Message,
			Error:   err,
		})

	case model.StateDivergent:
		if r.dryRun {
			log.Info("divergent (dry-run, not applying)")
			return finish(model.CheckResult{
				Status:  model.StatusWouldApply,
				Message: eval.Message,
			})
		}

		log.Info("divergent, applying desired state")
		if err := check.Apply(ctx, eval); err != nil {
			if errors.Is(err, ErrAlreadySatisfied) {
				log.Debug("satisfied by a concurrent writer")
				return finish(model.CheckResult{
					Status:  model.StatusSatisfied,
					Message: "found already in desired state",
				})
			}
			log.Error(err, "apply failed")
			var authErr *shiperrors.AuthError
			if !errors.As(err, &authErr) {
				err = shiperrors.NewApplyError(meta.ID, err)
			}
			return finish(model.CheckResult{
				Status:  model.StatusFailed,
				Message: fmt.Sprintf("apply failed: %v", err),
				Error:   err,
			})
		}
		log.Info("applied")
		return finish(model.CheckResult{
			Status:  model.StatusApplied,
			Message: eval.Message,
		})
	}

	err = fmt.Errorf("unknown evaluation state %q", eval.State)
	return finish(model.CheckResult{
		Status:  model.StatusFailed,
		Message: err.Error(),
		Error:   err,
	})
}
