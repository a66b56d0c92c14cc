// Package pipeline orchestrates the sequential QA pipeline.
//
// [Orchestrator.RunPipeline] drives one user story through three generative
// stages - planning, test case generation, validation - persisting each
// stage's artifact to the session store as it completes and consulting the
// style memory before generation. Stages run strictly in sequence; each
// stage's output is a required input of the next.
//
// Failure semantics are fail-fast: the first stage that errors or returns an
// unusable artifact aborts the run with a stage-attributed [StageError].
// There are no internal retries; callers retry the whole pipeline under a
// fresh session id. Artifacts persisted before the failure stay in the
// store.
//
// The orchestrator holds no locks and supports concurrent runs only for
// distinct session ids; see the session and memory packages for the
// serialization requirements on their shared state.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qasentinel/internal/genai"
	"qasentinel/internal/memory"
	"qasentinel/internal/session"
	"qasentinel/internal/stage"
)

// defaultSimilarExampleLimit caps how many past runs condition the
// generation stage when the caller does not configure a limit.
const defaultSimilarExampleLimit = 3

// Input is the user story a pipeline run processes.
type Input struct {
	// SessionID is the caller-supplied run identifier. Must not already
	// exist in the session store.
	SessionID string

	// Title is the user story title, also the style-memory lookup key.
	Title string

	// Description is the story narrative.
	Description string

	// AcceptanceCriteria are the ordered acceptance criteria.
	AcceptanceCriteria []string

	// QAContext describes QA preferences that condition every stage.
	QAContext string
}

// Result is the consolidated output of a successful run.
type Result struct {
	SessionID              string         `json:"session_id"`
	Title                  string         `json:"title"`
	QAContext              string         `json:"qa_context"`
	PlannerOutput          map[string]any `json:"planner_output"`
	TestcaseOutput         map[string]any `json:"testcase_output"`
	GlobalValidationOutput map[string]any `json:"global_validation_output"`
}

// Orchestrator coordinates the session store, style memory, and the three
// stage contracts. Create with [NewOrchestrator].
type Orchestrator struct {
	store        *session.Store
	memory       *memory.Memory
	planner      *stage.Contract
	generator    *stage.Contract
	validator    *stage.Contract
	similarLimit int
	logger       *zap.Logger
}

// NewOrchestrator creates an [Orchestrator] that drives all three stages
// through the given generative client.
//
// topK caps how many similar past runs are injected into the generation
// payload; values below 1 fall back to the built-in default of 3.
//
// The logger must be configured by the hosting application; pass
// zap.NewNop() to discard logs. A nil logger is replaced with a nop logger.
func NewOrchestrator(client genai.Client, store *session.Store, mem *memory.Memory, topK int, logger *zap.Logger) *Orchestrator {
	if topK < 1 {
		topK = defaultSimilarExampleLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:        store,
		memory:       mem,
		planner:      stage.NewContract(stage.KindPlanner, client),
		generator:    stage.NewContract(stage.KindGenerator, client),
		validator:    stage.NewContract(stage.KindValidator, client),
		similarLimit: topK,
		logger:       logger,
	}
}

// run tracks the state of one pipeline execution.
type run struct {
	input Input
	state State
}

// advance moves the run forward one state, panicking on a sequence bug; the
// transition table is fixed at compile time, so an invalid move is a
// programming error, not an input error.
func (o *Orchestrator) advance(r *run, to State) {
	if !CanTransition(r.state, to) {
		panic(fmt.Sprintf("pipeline: invalid transition %s -> %s", r.state, to))
	}
	o.logger.Debug("pipeline state transition",
		zap.String("session_id", r.input.SessionID),
		zap.String("from", string(r.state)),
		zap.String("to", string(to)))
	r.state = to
}

// fail absorbs the run into [StateFailed] and returns err unchanged.
func (o *Orchestrator) fail(r *run, err error) error {
	o.logger.Error("pipeline failed",
		zap.String("session_id", r.input.SessionID),
		zap.String("state", string(r.state)),
		zap.Error(err))
	r.state = StateFailed
	return err
}

// RunPipeline processes one user story through planning, generation, and
// validation.
//
// The session id must be fresh; a duplicate fails the run before any stage
// is invoked. Each stage artifact is checkpointed to the session store
// before the next stage starts, so a later failure leaves earlier outputs
// readable. On success the run is appended to the style memory and the
// consolidated [Result] returned.
//
// Errors are stage-attributed: use errors.As with [*StageError] to learn
// which stage failed, and errors.Is against [ErrUnusableArtifact] or
// [session.ErrDuplicateSession] for the cause.
func (o *Orchestrator) RunPipeline(ctx context.Context, input Input) (*Result, error) {
	r := &run{input: input, state: StateInit}

	o.logger.Info("pipeline started",
		zap.String("session_id", input.SessionID),
		zap.String("title", input.Title))

	if err := o.store.StartSession(input.SessionID, input.Title, input.QAContext); err != nil {
		return nil, o.fail(r, fmt.Errorf("failed to start session: %w", err))
	}

	// Planning
	o.advance(r, StatePlanning)
	plannerOutput, err := o.runStage(ctx, o.planner, map[string]any{
		"title":               input.Title,
		"description":         input.Description,
		"acceptance_criteria": input.AcceptanceCriteria,
		"qa_context":          input.QAContext,
	})
	if err != nil {
		return nil, o.fail(r, err)
	}
	if err := o.store.SaveStageOutput(input.SessionID, session.StagePlanner, plannerOutput); err != nil {
		return nil, o.fail(r, err)
	}

	// Memory lookup
	o.advance(r, StateMemoryLookup)
	similar := o.memory.SimilarExamples(input.Title, o.similarLimit)
	o.logger.Debug("style memory consulted",
		zap.String("session_id", input.SessionID),
		zap.Int("matches", len(similar)))

	// Generation
	o.advance(r, StateGenerating)
	testcaseOutput, err := o.runStage(ctx, o.generator, map[string]any{
		"planner_output":   plannerOutput,
		"qa_context":       input.QAContext,
		"similar_examples": similar,
	})
	if err != nil {
		return nil, o.fail(r, err)
	}
	// Models sometimes drop the echoed planner output; restore it so the
	// persisted artifact is self-contained.
	if _, ok := testcaseOutput["planner_output"]; !ok {
		testcaseOutput["planner_output"] = plannerOutput
	}
	if err := o.store.SaveStageOutput(input.SessionID, session.StageTestcase, testcaseOutput); err != nil {
		return nil, o.fail(r, err)
	}

	// Validation
	o.advance(r, StateValidating)
	validationOutput, err := o.runStage(ctx, o.validator, map[string]any{
		"planner_output":  plannerOutput,
		"testcase_output": testcaseOutput,
		"qa_context":      input.QAContext,
	})
	if err != nil {
		return nil, o.fail(r, err)
	}
	if err := o.store.SaveStageOutput(input.SessionID, session.StageGlobalValidation, validationOutput); err != nil {
		return nil, o.fail(r, err)
	}

	o.advance(r, StatePersisted)
	o.memory.SaveExample(memory.Example{
		StoryID:            input.SessionID,
		Title:              input.Title,
		AcceptanceCriteria: input.AcceptanceCriteria,
		PlannerOutput:      plannerOutput,
		TestcaseOutput:     testcaseOutput,
		QAContext:          input.QAContext,
	})

	o.advance(r, StateDone)
	o.logger.Info("pipeline completed",
		zap.String("session_id", input.SessionID))

	return &Result{
		SessionID:              input.SessionID,
		Title:                  input.Title,
		QAContext:              input.QAContext,
		PlannerOutput:          plannerOutput,
		TestcaseOutput:         testcaseOutput,
		GlobalValidationOutput: validationOutput,
	}, nil
}

// runStage invokes one contract and escalates unusable output into a
// stage-attributed error.
func (o *Orchestrator) runStage(ctx context.Context, contract *stage.Contract, payload map[string]any) (map[string]any, error) {
	artifact, err := contract.Run(ctx, payload)
	if err != nil {
		return nil, newStageError(contract.Kind(), err)
	}
	if stage.IsErrorArtifact(artifact) || len(artifact) == 0 {
		return nil, newStageError(contract.Kind(), ErrUnusableArtifact)
	}
	return artifact, nil
}
