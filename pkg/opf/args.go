package opf

import (
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
	"github.com/voltlab/gridopt/pkg/solver"
)

// SolveRequest is the canonical parameter set every accepted call shape
// normalizes into.
type SolveRequest struct {
	Case        *grid.Case               `json:"case"`
	Constraints solver.LinearConstraints `json:"constraints"`
	Options     Options                  `json:"options"`
}

// ResolveArgs normalizes the accepted call shapes into one SolveRequest.
// The historical entry point accepted a varying argument list; the
// supported tuples are:
//
//	(case)
//	(case, options)
//	(case, constraints)
//	(case, constraints, options)
//
// Options may also be passed as a flat options vector ([]float64), and
// constraints by value or pointer. Any other shape fails with
// INVALID_ARGUMENT_SHAPE naming the offending arity or argument.
//
// Prefer the named entry points (Runner.Execute, Solve,
// SolveWithConstraints) in new code; this resolver exists for callers
// porting from the positional interface.
func ResolveArgs(args ...any) (SolveRequest, error) {
	var req SolveRequest

	if len(args) == 0 || len(args) > 3 {
		return req, errors.New(errors.ErrCodeInvalidArgumentShape,
			"solve accepts 1 to 3 arguments, got %d", len(args))
	}

	cs, ok := args[0].(*grid.Case)
	if !ok || cs == nil {
		return req, errors.New(errors.ErrCodeInvalidArgumentShape,
			"first argument must be a non-nil *grid.Case, got %T", args[0])
	}
	req.Case = cs

	rest := args[1:]
	if len(rest) == 0 {
		return req, nil
	}

	// Middle argument: constraints, or options when no constraints given.
	consumed, err := resolveArg(&req, rest[0], len(rest) == 1)
	if err != nil {
		return req, err
	}
	if len(rest) == 2 {
		if !consumed {
			return req, errors.New(errors.ErrCodeInvalidArgumentShape,
				"second of three arguments must be a constraint set, got %T", rest[0])
		}
		if ok := resolveOptionsArg(&req, rest[1]); !ok {
			return req, errors.New(errors.ErrCodeInvalidArgumentShape,
				"third argument must be options, got %T", rest[1])
		}
	}
	return req, nil
}

// resolveArg consumes a constraint-set argument, falling back to options
// when allowOptions is set. Returns whether a constraint set was consumed.
func resolveArg(req *SolveRequest, arg any, allowOptions bool) (bool, error) {
	switch v := arg.(type) {
	case solver.LinearConstraints:
		req.Constraints = v
		return true, nil
	case *solver.LinearConstraints:
		if v != nil {
			req.Constraints = *v
		}
		return true, nil
	}
	if allowOptions && resolveOptionsArg(req, arg) {
		return false, nil
	}
	return false, errors.New(errors.ErrCodeInvalidArgumentShape,
		"argument must be a constraint set or options, got %T", arg)
}

func resolveOptionsArg(req *SolveRequest, arg any) bool {
	switch v := arg.(type) {
	case Options:
		req.Options = v
	case *Options:
		if v != nil {
			req.Options = *v
		}
	case []float64:
		req.Options = OptionsFromVector(v)
	default:
		return false
	}
	return true
}
