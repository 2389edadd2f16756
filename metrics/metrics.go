// Package metrics aggregates per-segment copy number calls into sample
// level summaries: genome doubling, altered and LOH genome fractions,
// and arm-level copy number change calls. The instability scores with
// engine-owned formulas (LST, NtAI, HRD-LOH) are merged in from the
// engine result rather than computed here.
package metrics

import (
	"strings"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/facets"
	"golang.org/x/exp/slices"
)

// Summary holds the derived instability metrics for one pass. Lst, Ntai,
// and HrdLoh are -1 when the engine did not report them.
type Summary struct {
	GenomeDoubled         bool
	FractionGenomeAltered float64
	Hypoploid             bool
	LohFraction           float64
	Lst                   int
	Ntai                  int
	HrdLoh                int
}

// Compute derives a Summary from EM copy number calls, merging the engine
// scores when present. Segments with an unknown minor copy number are
// excluded from the LOH and doubling fractions.
func Compute(segs []facets.Segment, em *facets.EngineMetrics) Summary {
	s := Summary{Lst: -1, Ntai: -1, HrdLoh: -1}
	total := facets.GenomeLength(segs)
	var altered, hypo, lohTotal, loh, doubled int
	for i := range segs {
		length := segs[i].End - segs[i].Start
		if segs[i].TcnEm != 2 {
			altered += length
		}
		if segs[i].TcnEm < 2 {
			hypo += length
		}
		if segs[i].LcnEm == facets.LcnNA {
			continue
		}
		lohTotal += length
		if segs[i].LcnEm == 0 && segs[i].TcnEm > 0 {
			loh += length
		}
		if segs[i].TcnEm-segs[i].LcnEm >= 2 {
			doubled += length
		}
	}
	if total > 0 {
		s.FractionGenomeAltered = float64(altered) / float64(total)
		s.Hypoploid = float64(hypo)/float64(total) > 0.5
	}
	if lohTotal > 0 {
		s.LohFraction = float64(loh) / float64(lohTotal)
		s.GenomeDoubled = float64(doubled)/float64(lohTotal) > 0.5
	}
	if em != nil {
		s.Lst = em.Lst
		s.Ntai = em.Ntai
		s.HrdLoh = em.HrdLoh
	}
	return s
}

// ArmCall is the dominant copy number call for one chromosome arm.
type ArmCall struct {
	Arm       string
	Tcn       int
	Lcn       int
	CnState   string
	FracOfArm float64
}

// ArmLevelChanges reduces segments to one call per chromosome arm: the
// length-weighted dominant (tcn, lcn) pair among segments overlapping the
// arm, using arm boundaries for the configured build. Arms with no
// overlapping segment are omitted. Output order is 1p, 1q, 2p, ...
func ArmLevelChanges(segs []facets.Segment, genome config.Genome, wgd bool) []ArmCall {
	arms := armTables[genome]
	var calls []ArmCall
	for _, ca := range arms {
		if c, ok := armCall(segs, ca.chrom, 0, ca.cen, wgd); ok {
			c.Arm = ca.chrom + "p"
			calls = append(calls, c)
		}
		if c, ok := armCall(segs, ca.chrom, ca.cen, ca.length, wgd); ok {
			c.Arm = ca.chrom + "q"
			calls = append(calls, c)
		}
	}
	slices.SortStableFunc(calls, func(a, b ArmCall) int {
		ra, rb := chromRank(strings.TrimRight(a.Arm, "pq")), chromRank(strings.TrimRight(b.Arm, "pq"))
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Arm, b.Arm)
	})
	return calls
}

func armCall(segs []facets.Segment, chrom string, start, end int, wgd bool) (ArmCall, bool) {
	type cnPair struct{ tcn, lcn int }
	weight := make(map[cnPair]int)
	var covered int
	for i := range segs {
		if normChrom(segs[i].Chrom) != chrom {
			continue
		}
		lo, hi := segs[i].Start, segs[i].End
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}
		if hi <= lo {
			continue
		}
		covered += hi - lo
		weight[cnPair{segs[i].TcnEm, segs[i].LcnEm}] += hi - lo
	}
	if covered == 0 {
		return ArmCall{}, false
	}

	var best cnPair
	var bestWeight int
	for pair, w := range weight {
		// ties break toward the lower copy state so output is stable
		if w > bestWeight || (w == bestWeight && (pair.tcn < best.tcn || (pair.tcn == best.tcn && pair.lcn < best.lcn))) {
			best, bestWeight = pair, w
		}
	}
	return ArmCall{
		Tcn:       best.tcn,
		Lcn:       best.lcn,
		CnState:   CnState(best.tcn, best.lcn, wgd),
		FracOfArm: float64(bestWeight) / float64(end-start),
	}, true
}

// CnState names the copy number state of a (tcn, lcn) pair relative to a
// diploid (or genome-doubled tetraploid) baseline.
func CnState(tcn, lcn int, wgd bool) string {
	baseline := 2
	if wgd {
		baseline = 4
	}
	var state string
	switch {
	case tcn == 0:
		return "HOMDEL"
	case tcn < baseline:
		state = "LOSS"
	case tcn == baseline:
		state = "DIPLOID"
		if wgd {
			state = "TETRAPLOID"
		}
	case tcn <= baseline+2:
		state = "GAIN"
	default:
		state = "AMP"
	}
	if lcn == 0 {
		switch state {
		case "DIPLOID", "TETRAPLOID":
			state = "CNLOH"
		default:
			state += " (LOH)"
		}
	}
	return state
}

func normChrom(chrom string) string {
	chrom = strings.TrimPrefix(chrom, "chr")
	switch chrom {
	case "23":
		return "X"
	case "24":
		return "Y"
	}
	return chrom
}
