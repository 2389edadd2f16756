// Package facets defines the result model returned by the external
// allele-specific copy number engine, plus decoders for the result
// directory the engine driver writes.
package facets

import (
	"encoding/json"
	"math"
)

// LcnNA marks a segment whose minor copy number could not be estimated.
const LcnNA int = -1

// Segment is one genomic segment from a fit, with copy number calls under
// both the CNCF and the EM method. Lcn or LcnEm is LcnNA when the engine
// returned NA; Cf or CfEm is NaN in the same case.
type Segment struct {
	Chrom      string
	Start      int
	End        int
	Seg        int
	NumMark    int
	Nhet       int
	CnlrMedian float64
	MafR       float64
	SegClust   int
	Cf         float64
	Tcn        int
	Lcn        int
	CfEm       float64
	TcnEm      int
	LcnEm      int
}

// Snp is one row of the per-SNP annotated table: observed log ratio and
// variant-allele log odds ratio plus the segment assignment.
type Snp struct {
	Chrom string
	Pos   int
	Cnlr  float64
	Valor float64
	Het   bool
	Seg   int
}

// GeneCall is one row of the engine's gene-level copy number table.
// Tcn or Lcn is LcnNA when the engine reported it as NA.
type GeneCall struct {
	Gene       string  `json:"gene"`
	Chrom      string  `json:"chrom"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Seg        int     `json:"seg"`
	CnlrMedian float64 `json:"median_cnlr_seg"`
	Tcn        int     `json:"tcn"`
	Lcn        int     `json:"lcn"`
	CnState    string  `json:"cn_state"`
	Filter     string  `json:"filter"`
}

// UnmarshalJSON maps a null tcn or lcn to LcnNA so a copy number the
// engine could not estimate is never mistaken for zero copies.
func (g *GeneCall) UnmarshalJSON(raw []byte) error {
	type plain GeneCall
	aux := struct {
		Tcn *int `json:"tcn"`
		Lcn *int `json:"lcn"`
		*plain
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}
	g.Tcn, g.Lcn = LcnNA, LcnNA
	if aux.Tcn != nil {
		g.Tcn = *aux.Tcn
	}
	if aux.Lcn != nil {
		g.Lcn = *aux.Lcn
	}
	return nil
}

// EngineMetrics holds the genomic instability scores computed inside the
// engine. The formulas live engine-side; the wrapper only reports them.
type EngineMetrics struct {
	Lst    int `json:"lst"`
	Ntai   int `json:"ntai"`
	HrdLoh int `json:"hrd_loh"`
}

// Result is the full output of one engine pass. Purity is NaN when the
// engine could not estimate it. FitPath points at the serialized fit
// object the driver wrote; it is staged in the engine work directory
// until persisted or discarded.
type Result struct {
	Purity   float64
	Ploidy   float64
	DipLogR  float64
	Version  string
	Flags    []string
	Segments []Segment
	Snps     []Snp
	Metrics  *EngineMetrics
	Genes    []GeneCall
	FitPath  string
}

// PurityNA reports whether the engine failed to estimate sample purity.
func (r *Result) PurityNA() bool {
	return math.IsNaN(r.Purity)
}

// GenomeLength returns the total number of bases covered by segments.
func GenomeLength(segs []Segment) int {
	var n int
	for i := range segs {
		n += segs[i].End - segs[i].Start
	}
	return n
}
