package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/voltlab/gridopt/pkg/caseio"
	"github.com/voltlab/gridopt/pkg/grid"
)

// writeTestCase saves a small solvable case to a temp file and returns
// its path.
func writeTestCase(t *testing.T) string {
	t.Helper()
	c := &grid.Case{
		Name:    "case3",
		BaseMVA: 100,
		Buses: []grid.Bus{
			{ID: 1, Type: grid.BusRef, VM: 1},
			{ID: 2, Type: grid.BusPV, VM: 1},
			{ID: 3, Type: grid.BusPQ, Pd: 105, VM: 1},
		},
		Gens: []grid.Gen{
			{Bus: 1, Status: 1, PMin: 10, PMax: 100},
			{Bus: 2, Status: 1, PMin: 10, PMax: 80},
		},
		Branches: []grid.Branch{
			{From: 1, To: 3, X: 0.1, Status: 1},
			{From: 2, To: 3, X: 0.1, Status: 1},
		},
		Costs: []grid.Cost{
			{Model: grid.CostPolynomial, Coeffs: []float64{0.02, 2, 10}},
			{Model: grid.CostPolynomial, Coeffs: []float64{0.03, 1.5, 15}},
		},
	}
	path := filepath.Join(t.TempDir(), "case3.toml")
	if err := caseio.Save(c, path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestConvertCommand(t *testing.T) {
	in := writeTestCase(t)
	out := filepath.Join(t.TempDir(), "converted.toml")

	cmd := newConvertCmd()
	if err := runCommand(t, cmd, in, "-o", out, "--breakpoints", "4"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	c, err := caseio.Load(out)
	if err != nil {
		t.Fatalf("load converted case: %v", err)
	}
	for i, cost := range c.Costs {
		if cost.Model != grid.CostPiecewiseLinear {
			t.Errorf("cost %d model = %d, want piecewise", i, cost.Model)
		}
		if len(cost.Points) != 4 {
			t.Errorf("cost %d has %d points, want 4", i, len(cost.Points))
		}
	}
}

func TestConvertCommandMissingFile(t *testing.T) {
	cmd := newConvertCmd()
	if err := runCommand(t, cmd, "/nonexistent/case.toml"); err == nil {
		t.Fatal("expected error for missing case file")
	}
}

func TestGraphCommandDOT(t *testing.T) {
	in := writeTestCase(t)
	out := filepath.Join(t.TempDir(), "case.dot")

	cmd := newGraphCmd()
	if err := runCommand(t, cmd, in, "--format", "dot", "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read diagram: %v", err)
	}
	dot := string(data)
	if !strings.Contains(dot, "graph grid") {
		t.Errorf("diagram missing graph header:\n%s", dot)
	}
	if !strings.Contains(dot, "bus1") {
		t.Errorf("diagram missing bus node:\n%s", dot)
	}
}

func TestGraphCommandUnknownFormat(t *testing.T) {
	in := writeTestCase(t)

	cmd := newGraphCmd()
	if err := runCommand(t, cmd, in, "--format", "gif"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSolveCommand(t *testing.T) {
	in := writeTestCase(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "result.json")

	cmd := newSolveCmd()
	err := runCommand(t, cmd, in, "--cache-dir", filepath.Join(dir, "cache"), "-o", out)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var res struct {
		Success   bool    `json:"success"`
		Objective float64 `json:"objective"`
		Backend   string  `json:"backend"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Success {
		t.Error("solve should converge on the fixture case")
	}
	if res.Objective <= 0 {
		t.Errorf("objective = %v, want positive", res.Objective)
	}
}
