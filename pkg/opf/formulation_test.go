package opf

import (
	"testing"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/solver"
)

func TestFormulationFor(t *testing.T) {
	tests := []struct {
		alg     int
		want    solver.Formulation
		backend string
	}{
		{AlgRestrictedPolyNL, solver.FormulationRestrictedPoly, "nlcon"},
		{AlgRestrictedPolyLP, solver.FormulationRestrictedPoly, "lpqp"},
		{AlgRestrictedPWLNL, solver.FormulationRestrictedPWL, "nlcon"},
		{AlgRestrictedPWLLP, solver.FormulationRestrictedPWL, "lpqp"},
		{AlgGeneralizedIPM, solver.FormulationGeneralized, "ipm"},
		{AlgGeneralizedSQP, solver.FormulationGeneralized, "sqp"},
	}
	for _, tt := range tests {
		f, backend, err := FormulationFor(tt.alg)
		if err != nil {
			t.Errorf("FormulationFor(%d): %v", tt.alg, err)
			continue
		}
		if f != tt.want || backend != tt.backend {
			t.Errorf("FormulationFor(%d) = (%s, %s), want (%s, %s)",
				tt.alg, f, backend, tt.want, tt.backend)
		}
	}
}

func TestFormulationForIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		f, backend, err := FormulationFor(AlgGeneralizedIPM)
		if err != nil || f != solver.FormulationGeneralized || backend != "ipm" {
			t.Fatalf("iteration %d: (%s, %s, %v)", i, f, backend, err)
		}
	}
}

func TestFormulationForUnknownSelector(t *testing.T) {
	for _, alg := range []int{1, 42, 110, 300, 999} {
		_, _, err := FormulationFor(alg)
		if err == nil {
			t.Errorf("FormulationFor(%d): expected error", alg)
			continue
		}
		if errors.GetCode(err) != errors.ErrCodeUnknownAlgorithm {
			t.Errorf("FormulationFor(%d) code = %s, want %s", alg, errors.GetCode(err), errors.ErrCodeUnknownAlgorithm)
		}
	}
}

func TestResolveFormulationExplicitSelector(t *testing.T) {
	reg := solver.NewRegistry()
	reg.Register(&fakeBackend{name: "ipm", avail: true})

	opts := defaultedOptions(Options{Algorithm: AlgGeneralizedIPM})
	res, err := resolveFormulation(&opts, CostClasses{}, &solver.LinearConstraints{}, reg, discardLogger())
	if err != nil {
		t.Fatalf("resolveFormulation: %v", err)
	}
	if res.algorithm != AlgGeneralizedIPM || res.backend != "ipm" || res.formulation != solver.FormulationGeneralized {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveFormulationDC(t *testing.T) {
	reg := solver.NewRegistry()
	reg.Register(&fakeBackend{name: "dc", avail: true})

	opts := defaultedOptions(Options{DC: true})
	res, err := resolveFormulation(&opts, CostClasses{}, &solver.LinearConstraints{}, reg, discardLogger())
	if err != nil {
		t.Fatalf("resolveFormulation: %v", err)
	}
	if res.backend != "dc" || res.formulation != solver.FormulationDC {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveFormulationDCRejectsConstraints(t *testing.T) {
	reg := solver.NewRegistry()
	reg.Register(&fakeBackend{name: "dc", avail: true})

	opts := defaultedOptions(Options{DC: true})
	lc := oneRowConstraints()
	_, err := resolveFormulation(&opts, CostClasses{}, &lc, reg, discardLogger())
	if errors.GetCode(err) != errors.ErrCodeUnsupportedConstraints {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeUnsupportedConstraints)
	}
}

func TestResolveFormulationCostModelMismatch(t *testing.T) {
	reg := solver.NewRegistry()
	reg.Register(&fakeBackend{name: "nlcon", avail: true})
	cc := CostClasses{Piecewise: []int{0}}

	for _, alg := range []int{AlgRestrictedPolyNL, AlgRestrictedPolyLP} {
		opts := defaultedOptions(Options{Algorithm: alg})
		_, err := resolveFormulation(&opts, cc, &solver.LinearConstraints{}, reg, discardLogger())
		if errors.GetCode(err) != errors.ErrCodeCostModelMismatch {
			t.Errorf("alg %d: code = %s, want %s", alg, errors.GetCode(err), errors.ErrCodeCostModelMismatch)
		}
	}

	// The reverse direction converts rather than rejects, so a
	// piecewise-restricted selector accepts polynomial costs.
	opts := defaultedOptions(Options{Algorithm: AlgRestrictedPWLNL})
	if _, err := resolveFormulation(&opts, CostClasses{Polynomial: []int{0}}, &solver.LinearConstraints{}, reg, discardLogger()); err != nil {
		t.Errorf("polynomial costs under piecewise selector: %v", err)
	}
}

func TestResolveFormulationConstraintsNeedGeneralized(t *testing.T) {
	reg := solver.NewRegistry()
	lc := oneRowConstraints()

	// Every restricted selector rejects extra constraints, whether or
	// not its backend is installed.
	for _, alg := range []int{AlgRestrictedPolyNL, AlgRestrictedPolyLP, AlgRestrictedPWLNL, AlgRestrictedPWLLP} {
		opts := defaultedOptions(Options{Algorithm: alg})
		_, err := resolveFormulation(&opts, CostClasses{}, &lc, reg, discardLogger())
		if errors.GetCode(err) != errors.ErrCodeUnsupportedConstraints {
			t.Errorf("alg %d: code = %s, want %s", alg, errors.GetCode(err), errors.ErrCodeUnsupportedConstraints)
		}
	}

	// The generalized selectors accept them.
	reg.Register(&fakeBackend{name: "sqp", avail: true})
	opts := defaultedOptions(Options{Algorithm: AlgGeneralizedSQP})
	res, err := resolveFormulation(&opts, CostClasses{}, &lc, reg, discardLogger())
	if err != nil {
		t.Fatalf("generalized selector rejected constraints: %v", err)
	}
	if res.formulation != solver.FormulationGeneralized {
		t.Errorf("formulation = %s", res.formulation)
	}
}

func TestResolveFormulationBackendUnavailable(t *testing.T) {
	// Not registered at all
	reg := solver.NewRegistry()
	opts := defaultedOptions(Options{Algorithm: AlgGeneralizedIPM})
	_, err := resolveFormulation(&opts, CostClasses{}, &solver.LinearConstraints{}, reg, discardLogger())
	if errors.GetCode(err) != errors.ErrCodeBackendUnavailable {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeBackendUnavailable)
	}

	// Registered but its availability probe fails
	reg.Register(&fakeBackend{name: "ipm", avail: false})
	opts = defaultedOptions(Options{Algorithm: AlgGeneralizedIPM})
	_, err = resolveFormulation(&opts, CostClasses{}, &solver.LinearConstraints{}, reg, discardLogger())
	if errors.GetCode(err) != errors.ErrCodeBackendUnavailable {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeBackendUnavailable)
	}
}

func TestAutoSelectPrefersGeneralized(t *testing.T) {
	cc := CostClasses{Polynomial: []int{0}}

	// ipm wins when present
	reg := solver.NewRegistry()
	reg.Register(&fakeBackend{name: "ipm", avail: true})
	reg.Register(&fakeBackend{name: "sqp", avail: true})
	opts := defaultedOptions(Options{})
	if got := autoSelect(&opts, cc, reg, discardLogger()); got != AlgGeneralizedIPM {
		t.Errorf("autoSelect = %d, want %d", got, AlgGeneralizedIPM)
	}

	// sqp next
	reg.Deregister("ipm")
	if got := autoSelect(&opts, cc, reg, discardLogger()); got != AlgGeneralizedSQP {
		t.Errorf("autoSelect = %d, want %d", got, AlgGeneralizedSQP)
	}

	// An unavailable ipm does not count as present
	reg.Register(&fakeBackend{name: "ipm", avail: false})
	if got := autoSelect(&opts, cc, reg, discardLogger()); got != AlgGeneralizedSQP {
		t.Errorf("autoSelect = %d, want %d", got, AlgGeneralizedSQP)
	}
}

func TestAutoSelectFallsBackByCostModel(t *testing.T) {
	reg := solver.NewRegistry() // no generalized backends

	// Pure polynomial costs pick the polynomial default
	opts := defaultedOptions(Options{})
	if got := autoSelect(&opts, CostClasses{Polynomial: []int{0, 1}}, reg, discardLogger()); got != AlgRestrictedPolyNL {
		t.Errorf("autoSelect = %d, want %d", got, AlgRestrictedPolyNL)
	}

	// Any piecewise row switches to the piecewise default
	if got := autoSelect(&opts, CostClasses{Piecewise: []int{0}}, reg, discardLogger()); got != AlgRestrictedPWLNL {
		t.Errorf("autoSelect = %d, want %d", got, AlgRestrictedPWLNL)
	}

	// Mixed models still pick the piecewise default
	mixed := CostClasses{Piecewise: []int{0}, Polynomial: []int{1}}
	if got := autoSelect(&opts, mixed, reg, discardLogger()); got != AlgRestrictedPWLNL {
		t.Errorf("autoSelect = %d, want %d", got, AlgRestrictedPWLNL)
	}

	// Configured defaults are honored
	opts = defaultedOptions(Options{PolyAlgorithm: AlgRestrictedPolyLP, PWLAlgorithm: AlgRestrictedPWLLP})
	if got := autoSelect(&opts, CostClasses{Polynomial: []int{0}}, reg, discardLogger()); got != AlgRestrictedPolyLP {
		t.Errorf("autoSelect = %d, want %d", got, AlgRestrictedPolyLP)
	}
	if got := autoSelect(&opts, CostClasses{Piecewise: []int{0}}, reg, discardLogger()); got != AlgRestrictedPWLLP {
		t.Errorf("autoSelect = %d, want %d", got, AlgRestrictedPWLLP)
	}
}

// defaultedOptions applies defaults, failing the test setup on invalid
// option combinations.
func defaultedOptions(opts Options) Options {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		panic(err)
	}
	return opts
}

func oneRowConstraints() solver.LinearConstraints {
	return solver.LinearConstraints{
		N:       1,
		Entries: []solver.Nonzero{{Row: 0, Col: 0, Val: 1}},
		Lower:   []float64{0},
		Upper:   []float64{10},
	}
}
