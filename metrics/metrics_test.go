package metrics

import (
	"math"
	"testing"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/facets"
)

func TestComputeFractions(t *testing.T) {
	segs := []facets.Segment{
		{Start: 0, End: 100, TcnEm: 2, LcnEm: 1},
		{Start: 0, End: 100, TcnEm: 3, LcnEm: 0},
		{Start: 0, End: 200, TcnEm: 1, LcnEm: 0},
	}
	s := Compute(segs, nil)
	// 300 of 400 bases have tcn != 2
	if math.Abs(s.FractionGenomeAltered-0.75) > 1e-9 {
		t.Error("fraction genome altered", s.FractionGenomeAltered)
	}
	// all segments have known lcn; 300 of 400 bases have lcn == 0 with tcn > 0
	if math.Abs(s.LohFraction-0.75) > 1e-9 {
		t.Error("loh fraction", s.LohFraction)
	}
	if s.GenomeDoubled {
		t.Error("no doubling: only 100 of 400 bases have mcn >= 2")
	}
	if s.Hypoploid {
		t.Error("200 of 400 bases below diploid is not > 0.5")
	}
	if s.Lst != -1 || s.Ntai != -1 || s.HrdLoh != -1 {
		t.Error("engine scores should be absent without engine metrics", s)
	}
}

func TestComputeSkipsUnknownLcn(t *testing.T) {
	segs := []facets.Segment{
		{Start: 0, End: 100, TcnEm: 4, LcnEm: 2},
		{Start: 0, End: 1000, TcnEm: 4, LcnEm: facets.LcnNA},
	}
	s := Compute(segs, &facets.EngineMetrics{Lst: 3, Ntai: 2, HrdLoh: 1})
	if !s.GenomeDoubled {
		t.Error("the only lcn-known segment has mcn 2, so doubling should hold")
	}
	if s.Lst != 3 || s.Ntai != 2 || s.HrdLoh != 1 {
		t.Error("engine scores should be merged in", s)
	}
}

func TestCnState(t *testing.T) {
	cases := []struct {
		tcn, lcn int
		wgd      bool
		want     string
	}{
		{0, 0, false, "HOMDEL"},
		{1, 0, false, "LOSS (LOH)"},
		{2, 1, false, "DIPLOID"},
		{2, 0, false, "CNLOH"},
		{3, 1, false, "GAIN"},
		{4, 0, false, "GAIN (LOH)"},
		{7, 1, false, "AMP"},
		{4, 2, true, "TETRAPLOID"},
		{4, 0, true, "CNLOH"},
		{2, 1, true, "LOSS"},
	}
	for _, c := range cases {
		if got := CnState(c.tcn, c.lcn, c.wgd); got != c.want {
			t.Errorf("CnState(%d, %d, %v) = %s, want %s", c.tcn, c.lcn, c.wgd, got, c.want)
		}
	}
}

func TestArmLevelChanges(t *testing.T) {
	// hg19 chr1 centromere is at 125 Mb: one segment per arm plus a
	// small conflicting segment on 1p that must lose the weighting
	segs := []facets.Segment{
		{Chrom: "1", Start: 0, End: 100000000, TcnEm: 3, LcnEm: 1},
		{Chrom: "1", Start: 100000000, End: 110000000, TcnEm: 2, LcnEm: 1},
		{Chrom: "1", Start: 125000000, End: 249250621, TcnEm: 2, LcnEm: 0},
	}
	calls := ArmLevelChanges(segs, config.Hg19, false)
	if len(calls) != 2 {
		t.Fatal("expected calls for 1p and 1q only, got", calls)
	}
	if calls[0].Arm != "1p" || calls[0].Tcn != 3 || calls[0].CnState != "GAIN" {
		t.Error("1p call", calls[0])
	}
	if calls[1].Arm != "1q" || calls[1].CnState != "CNLOH" {
		t.Error("1q call", calls[1])
	}
	if calls[1].FracOfArm < 0.99 {
		t.Error("1q is fully covered by its segment", calls[1].FracOfArm)
	}
}

func TestArmLevelChromNaming(t *testing.T) {
	segs := []facets.Segment{
		{Chrom: "chr2", Start: 0, End: 50000000, TcnEm: 1, LcnEm: 0},
		{Chrom: "23", Start: 0, End: 50000000, TcnEm: 2, LcnEm: 1},
	}
	calls := ArmLevelChanges(segs, config.Hg19, false)
	if len(calls) != 2 || calls[0].Arm != "2p" || calls[1].Arm != "Xp" {
		t.Error("chr prefixes and numeric X should normalize", calls)
	}
}

func TestArmTablesComplete(t *testing.T) {
	for _, g := range []config.Genome{config.Hg18, config.Hg19, config.Hg38} {
		arms := armTables[g]
		if len(arms) != 24 {
			t.Error(g, "should carry 24 chromosomes, has", len(arms))
		}
		for _, a := range arms {
			if a.cen <= 0 || a.cen >= a.length {
				t.Error(g, a.chrom, "centromere must split the chromosome")
			}
		}
	}
}
