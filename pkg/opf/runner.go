package opf

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/voltlab/gridopt/pkg/cache"
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
	"github.com/voltlab/gridopt/pkg/history"
	"github.com/voltlab/gridopt/pkg/observability"
	"github.com/voltlab/gridopt/pkg/solver"
)

// Runner executes the solve pipeline with caching and run archiving.
// Both CLI and API use this to avoid duplicating orchestration logic.
//
// The Runner is stateless apart from its collaborators. Multiple
// goroutines can safely share one Runner.
type Runner struct {
	Registry *solver.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	History  history.Store
	Logger   *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// A nil registry uses the process-wide backend registry. A nil cache
// disables caching; a nil keyer uses the default keyer; a nil history
// store disables run archiving.
func NewRunner(reg *solver.Registry, c cache.Cache, keyer cache.Keyer, hist history.Store, logger *log.Logger) *Runner {
	if reg == nil {
		reg = solver.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Cache:    c,
		Keyer:    keyer,
		History:  hist,
		Logger:   logger,
	}
}

// Execute runs the complete analyze → resolve → convert → dispatch →
// normalize pipeline for one request.
//
// Configuration problems (malformed case, unknown selector, inadmissible
// formulation, unavailable backend) return an error before any backend
// runs. A backend that runs but fails to converge is NOT an error: the
// result comes back with Success=false and a status code.
func (r *Runner) Execute(ctx context.Context, req SolveRequest) (*Result, error) {
	if req.Options.Logger == nil {
		req.Options.Logger = r.Logger
	}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := req.Options.Logger

	if req.Case == nil {
		return nil, errors.New(errors.ErrCodeInvalidCase, "no case supplied")
	}
	if err := req.Case.Validate(); err != nil {
		return nil, err
	}
	numVars := 2*len(req.Case.Buses) + 2*len(req.Case.Gens)
	if err := req.Constraints.Validate(numVars); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	caseHash, cacheKey := r.cacheKey(req)

	// Cache check
	if !req.Options.Refresh {
		if res, ok := r.cachedResult(ctx, cacheKey, logger); ok {
			res.RunID = runID
			res.CacheHit = true
			r.archive(ctx, res, caseHash, logger)
			r.report(res, &req.Options, logger)
			return res, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "solve")

	result := &Result{RunID: runID}

	// Stage 1: Analyze. The DC formulation ignores cost models entirely,
	// so analysis is skipped on that path.
	var cc CostClasses
	if !req.Options.DC {
		analyzeStart := time.Now()
		var err error
		cc, err = AnalyzeCosts(req.Case.Costs, req.Case.Gens)
		if err != nil {
			return nil, err
		}
		result.Stats.AnalyzeTime = time.Since(analyzeStart)
	}

	// The reported elapsed time starts here: it covers resolution,
	// conversion, and the backend, not input validation or analysis.
	solveStart := time.Now()

	// Stage 2: Resolve
	resolveStart := time.Now()
	res, err := resolveFormulation(&req.Options, cc, &req.Constraints, r.Registry, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Algorithm = res.algorithm
	result.Formulation = res.formulation
	result.Backend = res.backend

	logger.Info("resolved formulation",
		"algorithm", res.algorithm,
		"formulation", res.formulation.String(),
		"backend", res.backend)

	// Stage 3: Convert. Piecewise-restricted backends cannot evaluate
	// polynomial curves, so any polynomial rows are refit first.
	costs := req.Case.Costs
	if res.formulation == solver.FormulationRestrictedPWL && cc.HasPolynomial() {
		convertStart := time.Now()
		converted, n, err := ConvertCosts(req.Case.Costs, req.Case.Gens, req.Options.Breakpoints)
		if err != nil {
			return nil, err
		}
		costs = converted
		result.Stats.ConvertTime = time.Since(convertStart)
		result.Stats.ConvertedRows = n
		observability.Solve().OnConvert(ctx, n, result.Stats.ConvertTime)

		logger.Info("converted polynomial costs",
			"rows", n,
			"breakpoints", req.Options.Breakpoints,
			"duration", result.Stats.ConvertTime)
	}

	// Stage 4: Dispatch
	backend, err := r.Registry.Lookup(res.backend)
	if err != nil {
		return nil, err
	}
	problem := &solver.Problem{
		Case:          req.Case,
		Costs:         costs,
		Constraints:   req.Constraints,
		MaxIterations: req.Options.MaxIterations,
		Verbosity:     req.Options.Verbosity,
	}

	observability.Solve().OnDispatch(ctx, res.backend, res.formulation.String())
	dispatchStart := time.Now()
	sol, err := backend.Solve(ctx, problem)
	result.Stats.SolveTime = time.Since(dispatchStart)
	observability.Solve().OnComplete(ctx, res.backend, err == nil && sol != nil && sol.Converged, result.Stats.SolveTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "backend %s", res.backend)
	}

	// Stage 5: Normalize
	result.Case = sol.Case
	result.Objective = sol.Objective
	result.Success = sol.Converged
	result.Status = sol.Status
	result.Iterations = sol.Iterations
	result.ConstraintValues = sol.ConstraintValues
	result.Jacobian = sol.Jacobian
	result.Elapsed = time.Since(solveStart)
	result.normalize()

	logger.Info("solve finished",
		"run_id", result.RunID,
		"success", result.Success,
		"objective", result.Objective,
		"iterations", result.Iterations,
		"elapsed", result.Elapsed)

	r.storeResult(ctx, cacheKey, result, logger)
	r.archive(ctx, result, caseHash, logger)
	r.report(result, &req.Options, logger)

	return result, nil
}

// cacheKey computes the case content hash and the solve cache key for a
// request.
func (r *Runner) cacheKey(req SolveRequest) (caseHash, key string) {
	caseData, _ := json.Marshal(req.Case)
	caseHash = cache.Hash(caseData)

	opts := cache.SolveKeyOpts{
		Algorithm:     req.Options.Algorithm,
		DC:            req.Options.DC,
		Breakpoints:   req.Options.Breakpoints,
		MaxIterations: req.Options.MaxIterations,
		PolyAlgorithm: req.Options.PolyAlgorithm,
		PWLAlgorithm:  req.Options.PWLAlgorithm,
	}
	if !req.Constraints.Empty() {
		conData, _ := json.Marshal(req.Constraints)
		opts.ConstraintsHash = cache.Hash(conData)
	}
	return caseHash, r.Keyer.SolveKey(caseHash, opts)
}

// cachedResult loads and decodes a cached result. Decode failures are
// treated as misses.
func (r *Runner) cachedResult(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Warn("cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "solve")
	logger.Info("cache hit", "key", key)
	return &res, true
}

// storeResult writes a result to the solve cache. Failures are logged and
// swallowed; caching is never load-bearing.
func (r *Runner) storeResult(ctx context.Context, key string, res *Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, 0); err != nil {
		logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solve", len(data))
}

// archive records the run in the history store, when one is configured.
func (r *Runner) archive(ctx context.Context, res *Result, caseHash string, logger *log.Logger) {
	if r.History == nil {
		return
	}
	rec := history.Record{
		RunID:       res.RunID,
		CaseHash:    caseHash,
		Algorithm:   res.Algorithm,
		Formulation: res.Formulation.String(),
		Backend:     res.Backend,
		Objective:   res.Objective,
		Success:     res.Success,
		Status:      res.Status,
		Iterations:  res.Iterations,
		Elapsed:     res.Elapsed,
		CacheHit:    res.CacheHit,
	}
	if err := r.History.Record(ctx, &rec); err != nil {
		logger.Warn("history write failed", "run_id", res.RunID, "error", err)
	}
}

// report invokes the configured reporter on a successful result.
// Reporter errors are logged, never returned.
func (r *Runner) report(res *Result, opts *Options, logger *log.Logger) {
	if opts.Reporter == nil || !res.Success {
		return
	}
	if err := opts.Reporter.Report(res); err != nil {
		logger.Warn("reporter failed", "run_id", res.RunID, "error", err)
	}
}

// =============================================================================
// Package-Level Entry Points
// =============================================================================

// Solve runs the pipeline on a case with the given options, using the
// process-wide backend registry and no cache or archive.
func Solve(ctx context.Context, c *grid.Case, opts Options) (*Result, error) {
	return NewRunner(nil, nil, nil, nil, nil).Execute(ctx, SolveRequest{Case: c, Options: opts})
}

// SolveWithConstraints runs the generalized pipeline on a case with extra
// linear constraints.
func SolveWithConstraints(ctx context.Context, c *grid.Case, lc solver.LinearConstraints, opts Options) (*Result, error) {
	return NewRunner(nil, nil, nil, nil, nil).Execute(ctx, SolveRequest{Case: c, Constraints: lc, Options: opts})
}
