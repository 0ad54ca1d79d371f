package render

import (
	"context"
	"sync"

	"datadetox/pkg/lineage"
	"datadetox/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Runner serializes pipeline runs under a last-request-wins discipline.
// Every new lineage payload starts an independent run tagged with a
// generation counter; when a run finishes, its result is applied only if
// no newer run has been dispatched since. Older in-flight runs are
// canceled and their results discarded, so a slow layout pass can never
// overwrite a newer graph.
type Runner struct {
	builder *Builder

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewRunner creates a Runner around the given Builder.
func NewRunner(builder *Builder) *Runner {
	return &Runner{builder: builder}
}

// Run dispatches one pipeline run for the payload and invokes apply with
// the finished graph, unless the run was superseded in the meantime.
// apply calls are serialized; a superseded run's apply is never invoked.
func (r *Runner) Run(ctx context.Context, data lineage.GraphData, risk *lineage.RiskContext, apply func(Graph)) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	runID, _ := gonanoid.New()
	logger.Debug("Dispatching lineage pipeline run", "run_id", runID, "generation", gen)

	go func() {
		defer cancel()

		graph := r.builder.Build(runCtx, data, risk)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.generation != gen {
			logger.Debug("Discarding superseded pipeline run", "run_id", runID, "generation", gen)
			return
		}
		apply(graph)
	}()
}

// RunSync executes one pipeline run on the calling goroutine, bypassing
// the supersession machinery. Used by request-scoped callers that need the
// result inline.
func (r *Runner) RunSync(ctx context.Context, data lineage.GraphData, risk *lineage.RiskContext) Graph {
	return r.builder.Build(ctx, data, risk)
}
