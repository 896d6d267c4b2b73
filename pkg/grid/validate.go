package grid

import (
	"github.com/voltlab/gridopt/pkg/errors"
)

// Validate checks the structural sanity of the case: table shapes and
// cross-references. It does not classify cost models; that is the
// analyzer's job and is deliberately skipped on the DC path.
func (c *Case) Validate() error {
	if len(c.Buses) == 0 {
		return errors.New(errors.ErrCodeInvalidCase, "case has no buses")
	}
	if c.BaseMVA <= 0 {
		return errors.New(errors.ErrCodeInvalidCase, "base MVA must be positive, got %g", c.BaseMVA)
	}

	seen := make(map[int]bool, len(c.Buses))
	for i := range c.Buses {
		b := &c.Buses[i]
		if seen[b.ID] {
			return errors.New(errors.ErrCodeInvalidCase, "duplicate bus ID %d", b.ID)
		}
		seen[b.ID] = true
		switch b.Type {
		case BusPQ, BusPV, BusRef, BusIsolated:
		default:
			return errors.New(errors.ErrCodeInvalidCase, "bus %d has unknown type %d", b.ID, b.Type)
		}
	}
	if c.RefBus() < 0 {
		return errors.New(errors.ErrCodeInvalidCase, "case has no reference bus")
	}

	for i := range c.Gens {
		g := &c.Gens[i]
		if !seen[g.Bus] {
			return errors.New(errors.ErrCodeInvalidCase, "gen %d references unknown bus %d", i, g.Bus)
		}
		if g.PMin > g.PMax {
			return errors.New(errors.ErrCodeInvalidCase, "gen %d has PMin %g > PMax %g", i, g.PMin, g.PMax)
		}
	}

	for i := range c.Branches {
		br := &c.Branches[i]
		if !seen[br.From] || !seen[br.To] {
			return errors.New(errors.ErrCodeInvalidCase, "branch %d references unknown bus (%d-%d)", i, br.From, br.To)
		}
		if br.Status > 0 && br.X == 0 {
			return errors.New(errors.ErrCodeInvalidCase, "in-service branch %d (%d-%d) has zero reactance", i, br.From, br.To)
		}
	}

	// One cost row per generator, or exactly two (P block then Q block).
	// Every generator needs a row: the dispatch engines index the cost
	// table by generator position on both the AC and DC paths.
	if n := len(c.Costs); len(c.Gens) > 0 && n != len(c.Gens) && n != 2*len(c.Gens) {
		return errors.New(errors.ErrCodeInvalidCase,
			"cost table has %d rows for %d generators (want n or 2n)", n, len(c.Gens))
	}

	return nil
}
