// Package application provides the application layer for answering questions.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
	"github.com/felixgeelhaar/react-agent/domain/policy"
	"github.com/felixgeelhaar/react-agent/domain/react"
	"github.com/felixgeelhaar/react-agent/domain/run"
	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
	"github.com/felixgeelhaar/react-agent/infrastructure/logging"
	"github.com/felixgeelhaar/react-agent/infrastructure/resilience"
	"github.com/felixgeelhaar/react-agent/infrastructure/statemachine"
	"github.com/felixgeelhaar/react-agent/infrastructure/telemetry"
)

var errNegativeBudget = errors.New("max iterations must not be negative")

// Engine resolves questions by alternating completions and searches.
//
// An Engine holds only collaborators fixed at construction. Every Resolve
// call owns its run, transcript, budget and interpreter, so independent
// questions may be resolved concurrently.
type Engine struct {
	model         domainmodel.Model
	searcher      domainsearch.Searcher
	catalog       *react.Catalog
	machine       *statekit.MachineConfig[*statemachine.Context]
	modelCalls    *resilience.Caller[domainmodel.Completion]
	searchCalls   *resilience.Caller[[]domainsearch.Result]
	runs          run.Store
	metrics       telemetry.Metrics
	tracer        *telemetry.Tracer
	maxIterations int
	timeout       time.Duration
	newID         func() string
}

// EngineConfig contains configuration for the engine.
type EngineConfig struct {
	// Model is the reasoning model. Required.
	Model domainmodel.Model

	// Searcher is the search capability. Required.
	Searcher domainsearch.Searcher

	// Catalog is the tool catalog rendered into prompts. Defaults to the
	// web search tool.
	Catalog *react.Catalog

	// MaxIterations is the budget used by Ask. Defaults to
	// policy.DefaultMaxIterations.
	MaxIterations int

	// Timeout bounds a whole question (0 = none).
	Timeout time.Duration

	// Resilience configures retry and circuit breaking on both external
	// calls. The zero value is fail-fast.
	Resilience resilience.Config

	// Runs records each resolved question's outcome when set.
	Runs run.Store

	// Metrics records loop metrics. Defaults to no-op.
	Metrics telemetry.Metrics

	// Tracer starts run, completion and search spans. Defaults to no-op.
	Tracer *telemetry.Tracer

	// IDGenerator creates run IDs. Defaults to random UUIDs.
	IDGenerator func() string
}

// NewEngine creates a new engine with the given configuration.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Model == nil {
		return nil, errors.New("model is required")
	}
	if config.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if config.MaxIterations < 0 {
		return nil, errNegativeBudget
	}

	e := &Engine{
		model:         config.Model,
		searcher:      config.Searcher,
		catalog:       config.Catalog,
		runs:          config.Runs,
		metrics:       config.Metrics,
		tracer:        config.Tracer,
		maxIterations: config.MaxIterations,
		timeout:       config.Timeout,
		newID:         config.IDGenerator,
	}

	// Set defaults
	if e.catalog == nil {
		catalog, err := react.NewCatalog(react.WebSearchTool(0))
		if err != nil {
			return nil, fmt.Errorf("failed to build tool catalog: %w", err)
		}
		e.catalog = catalog
	}
	machine, err := statemachine.NewLoopMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	e.machine = machine
	if e.maxIterations == 0 {
		e.maxIterations = policy.DefaultMaxIterations
	}
	if e.metrics == nil {
		e.metrics = telemetry.NoopMetrics{}
	}
	if e.tracer == nil {
		e.tracer = telemetry.NewNoopTracer()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	rc := config.Resilience
	if rc.MaxAttempts == 0 {
		rc.MaxAttempts = 1
	}
	rc.Name = "search"
	modelRC := rc
	modelRC.Name = "model"
	modelRC.NonRetryable = append(append([]error(nil), rc.NonRetryable...), domainmodel.ErrAuth)
	e.modelCalls = resilience.NewCaller[domainmodel.Completion](modelRC)
	e.searchCalls = resilience.NewCaller[[]domainsearch.Result](rc)

	return e, nil
}

// MaxIterations returns the budget used by Ask.
func (e *Engine) MaxIterations() int {
	return e.maxIterations
}

// Ask resolves a question with the configured iteration budget.
func (e *Engine) Ask(ctx context.Context, question string) (*agent.Run, error) {
	return e.Resolve(ctx, question, e.maxIterations)
}

// Resolve turns one question into one answer using at most maxIterations
// completion calls and at most maxIterations search calls.
//
// The returned run is never nil. On failure the error is an *agent.Error and
// the run carries the partial transcript, its kind and no answer.
func (e *Engine) Resolve(ctx context.Context, question string, maxIterations int) (*agent.Run, error) {
	runID := e.newID()
	r := agent.NewRun(runID, question, maxIterations)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ctx, span := e.tracer.StartRun(ctx, runID, maxIterations)
	e.metrics.IncrementActiveRuns(ctx)
	defer e.metrics.DecrementActiveRuns(ctx)

	err := e.resolve(ctx, r, question)

	telemetry.EndSpan(span, err,
		attribute.String("run.status", string(r.Status)),
		attribute.Int("run.completions", r.Completions),
		attribute.Int("run.searches", r.Searches),
	)
	e.metrics.RecordOutcome(ctx, string(r.Status), string(r.ErrorKind), r.Duration())
	e.record(ctx, r)

	if err != nil {
		logging.Warn().
			Add(logging.RunID(runID)).
			Add(logging.ErrorKind(r.ErrorKind)).
			Add(logging.ErrorField(err)).
			Add(logging.Iteration(r.Iterations)).
			Add(logging.Duration(r.Duration())).
			Msg("run failed")
		return r, err
	}

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.State(r.CurrentState)).
		Add(logging.Iteration(r.Iterations)).
		Add(logging.Duration(r.Duration())).
		Msg("run completed")
	return r, nil
}

// resolve drives the loop. Every returned error is an *agent.Error and the
// run has already been failed with it.
func (e *Engine) resolve(ctx context.Context, r *agent.Run, question string) error {
	q, err := agent.NormalizeQuestion(question)
	if err != nil {
		r.Fail(err)
		return err
	}
	r.Question = q
	if r.MaxIterations < 0 {
		err := agent.NewError(agent.KindInputRejected, errNegativeBudget)
		r.Fail(err)
		return err
	}

	budget := policy.NewIterationBudget(r.MaxIterations)
	machineCtx := statemachine.NewContext(r, budget)
	machineCtx.OnTransition = func(from, to agent.State, event statekit.EventType, reason string) {
		logging.Debug().
			Add(logging.RunID(r.ID)).
			Add(logging.FromState(from)).
			Add(logging.ToState(to)).
			Add(logging.Event(string(event))).
			Add(logging.Reason(reason)).
			Msg("state transition")
	}

	interp := statemachine.NewInterpreter(e.machine, machineCtx)
	interp.Start()
	defer interp.Stop()

	logging.Info().
		Add(logging.RunID(r.ID)).
		Add(logging.Question(q)).
		Add(logging.Budget(policy.BudgetIterations, r.MaxIterations)).
		Msg("run started")

	if r.MaxIterations == 0 {
		return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded, policy.ErrBudgetExceeded))
	}

	var next statekit.EventType = statemachine.EventPrompt
	for {
		if err := ctx.Err(); err != nil {
			return e.fail(r, interp, agent.NewError(agent.KindCanceled, err))
		}

		if err := interp.Send(next, ""); err != nil {
			return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded, err))
		}
		if aerr := spend(budget, policy.BudgetCompletions); aerr != nil {
			return e.fail(r, interp, aerr)
		}
		r.Completions++

		completion, aerr := e.complete(ctx, r, budget)
		if aerr != nil {
			return e.fail(r, interp, aerr)
		}

		action, perr := react.Parse(e.catalog, completion.Text)
		if perr != nil {
			e.metrics.RecordParseError(ctx, e.model.Name())
			if aerr := spend(budget, policy.BudgetIterations); aerr != nil {
				return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded, errors.Join(aerr.Err, perr)))
			}
			r.Iterations++

			logging.Debug().
				Add(logging.RunID(r.ID)).
				Add(logging.Iteration(r.Iterations)).
				Add(logging.ErrorField(perr)).
				Msg("completion could not be parsed")

			if r.Iterations >= r.MaxIterations {
				return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded, perr))
			}
			next = statemachine.EventReprompt
			continue
		}

		logging.Debug().
			Add(logging.RunID(r.ID)).
			Add(logging.Action(action.Type)).
			Add(logging.Iteration(r.Completions)).
			Msg("completion parsed")

		if action.IsFinish() {
			if err := interp.Send(statemachine.EventFinish, action.Thought); err != nil {
				return e.fail(r, interp, agent.NewError(agent.KindParse, err))
			}
			r.Iterations++
			r.Complete(action.Input)
			return nil
		}

		r.Transcript.Append(agent.Step{
			Thought:     action.Thought,
			Action:      agent.ActionSearch,
			Tool:        action.Tool,
			ActionInput: action.Input,
		})
		if err := interp.Send(statemachine.EventSearch, action.Input); err != nil {
			return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded, err))
		}

		if err := ctx.Err(); err != nil {
			return e.fail(r, interp, agent.NewError(agent.KindCanceled, err))
		}
		if aerr := spend(budget, policy.BudgetSearches); aerr != nil {
			return e.fail(r, interp, aerr)
		}
		r.Searches++

		results, aerr := e.search(ctx, r, action.Input)
		if aerr != nil {
			return e.fail(r, interp, aerr)
		}

		r.Transcript.Observe(domainsearch.FormatObservation(results))
		if aerr := spend(budget, policy.BudgetIterations); aerr != nil {
			return e.fail(r, interp, aerr)
		}
		r.Iterations++

		if r.Iterations >= r.MaxIterations {
			return e.fail(r, interp, agent.NewError(agent.KindBudgetExceeded,
				fmt.Errorf("%w: no final answer after %d iterations", policy.ErrBudgetExceeded, r.Iterations)))
		}
		next = statemachine.EventObserve
	}
}

// complete makes one logical completion call.
func (e *Engine) complete(ctx context.Context, r *agent.Run, budget *policy.Budget) (domainmodel.Completion, *agent.Error) {
	prompt := react.BuildPrompt(e.catalog, r.Question, r.Transcript.Steps())

	callCtx, span := e.tracer.StartCompletion(ctx, e.model.Name(), r.Completions)
	start := time.Now()
	completion, callErr := e.modelCalls.Call(callCtx, func(ctx context.Context) (domainmodel.Completion, error) {
		return e.model.Complete(ctx, prompt)
	})
	duration := time.Since(start)

	telemetry.EndSpan(span, callErr, attribute.Int("model.total_tokens", completion.Usage.TotalTokens))
	e.metrics.RecordCompletion(ctx, e.model.Name(), callErr == nil, duration)

	logging.Debug().
		Add(logging.RunID(r.ID)).
		Add(logging.Provider(e.model.Name())).
		Add(logging.Iteration(r.Completions)).
		Add(logging.Budget(policy.BudgetCompletions, budget.Remaining(policy.BudgetCompletions))).
		Add(logging.Duration(duration)).
		Msg("completion returned")

	if callErr != nil {
		return domainmodel.Completion{}, classifyModelError(ctx, callErr)
	}
	return completion, nil
}

// search makes one logical search call.
func (e *Engine) search(ctx context.Context, r *agent.Run, query string) ([]domainsearch.Result, *agent.Error) {
	callCtx, span := e.tracer.StartSearch(ctx, e.searcher.Name(), query)
	start := time.Now()
	results, callErr := e.searchCalls.Call(callCtx, func(ctx context.Context) ([]domainsearch.Result, error) {
		return e.searcher.Search(ctx, query)
	})
	duration := time.Since(start)

	telemetry.EndSpan(span, callErr, attribute.Int("search.results", len(results)))
	e.metrics.RecordSearch(ctx, e.searcher.Name(), callErr == nil, duration)

	logging.Debug().
		Add(logging.RunID(r.ID)).
		Add(logging.Provider(e.searcher.Name())).
		Add(logging.Query(query)).
		Add(logging.Results(len(results))).
		Add(logging.Duration(duration)).
		Msg("search returned")

	if callErr != nil {
		return nil, classifySearchError(ctx, callErr)
	}
	return results, nil
}

// spend consumes one unit of the named budget. Overspending fails the run
// with budget_exceeded even when the state machine guards allowed the step.
func spend(budget *policy.Budget, name string) *agent.Error {
	if err := budget.Consume(name, 1); err != nil {
		return agent.NewError(agent.KindBudgetExceeded, err)
	}
	return nil
}

// fail moves the run to failed and records the error on it.
func (e *Engine) fail(r *agent.Run, interp *statemachine.Interpreter, err *agent.Error) error {
	if interp != nil && !interp.IsTerminal() {
		_ = interp.Send(statemachine.EventFail, string(err.Kind))
	}
	r.Fail(err)
	return err
}

// record saves the run's outcome. Recording never changes the result.
func (e *Engine) record(ctx context.Context, r *agent.Run) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Save(context.WithoutCancel(ctx), run.RecordFrom(r)); err != nil {
		logging.Warn().
			Add(logging.RunID(r.ID)).
			Add(logging.Component("run_store")).
			Add(logging.ErrorField(err)).
			Msg("failed to record run outcome")
	}
}

// classifyModelError maps a model failure to its agent kind. A canceled
// caller context wins over whatever the provider reported.
func classifyModelError(ctx context.Context, err error) *agent.Error {
	if ctx.Err() != nil {
		return agent.NewError(agent.KindCanceled, err)
	}
	if errors.Is(err, domainmodel.ErrAuth) || errors.Is(err, domainmodel.ErrMissingAPIKey) {
		return agent.NewError(agent.KindModelAuth, err)
	}
	return agent.NewError(agent.KindModelUnavailable, err)
}

// classifySearchError maps a search failure to its agent kind.
func classifySearchError(ctx context.Context, err error) *agent.Error {
	if ctx.Err() != nil {
		return agent.NewError(agent.KindCanceled, err)
	}
	return agent.NewError(agent.KindSearchUnavailable, err)
}
