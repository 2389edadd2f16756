// Package engine defines the boundary to the external allele-specific
// copy number segmentation engine and its Rscript-backed implementation.
package engine

import (
	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/counts"
	"github.com/dasnellings/facetsTools/facets"
)

// Params is the parameter set for one segmentation pass. DipLogR is NaN
// when the engine should estimate the diploid baseline itself; in two-pass
// mode the hisens pass receives the purity pass's estimate here.
// Everything asks the engine to additionally compute instability metrics
// and gene-level calls.
type Params struct {
	Cval          int
	DipLogR       float64
	MinNhet       int
	SnpWindowSize int
	NormalDepth   int
	Genome        config.Genome
	Seed          int
	Everything    bool
}

// Engine runs one segmentation pass. Implementations must be deterministic
// given a fixed Params.Seed. A failure is fatal to the run; callers do not
// retry.
type Engine interface {
	Run(t *counts.Table, p Params) (*facets.Result, error)
}
