package plots

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dasnellings/facetsTools/facets"
)

func testResult() *facets.Result {
	return &facets.Result{
		Purity:  0.42,
		Ploidy:  2.81,
		DipLogR: -0.25,
		Segments: []facets.Segment{
			{Chrom: "1", Start: 100, End: 900, CnlrMedian: 0.1, MafR: 0.04,
				Cf: 0.3, Tcn: 2, Lcn: 1, CfEm: 0.31, TcnEm: 2, LcnEm: 1},
			{Chrom: "X", Start: 10, End: 400, CnlrMedian: -0.4, MafR: -0.01,
				Cf: math.NaN(), Tcn: 1, Lcn: facets.LcnNA, CfEm: math.NaN(), TcnEm: 1, LcnEm: facets.LcnNA},
		},
		Snps: []facets.Snp{
			{Chrom: "1", Pos: 100, Cnlr: 0.08, Valor: 0.4, Het: true},
			{Chrom: "1", Pos: 900, Cnlr: 0.12, Valor: math.NaN(), Het: false},
			{Chrom: "X", Pos: 400, Cnlr: -0.38, Valor: -0.5, Het: true},
		},
	}
}

func TestGenomeScaleOrdering(t *testing.T) {
	gs := newGenomeScale(testResult().Snps)
	if len(gs.order) != 2 || gs.order[0] != "1" || gs.order[1] != "X" {
		t.Error("chromosome order", gs.order)
	}
	if gs.offset["1"] != 0 {
		t.Error("first chromosome starts at 0", gs.offset)
	}
	if gs.offset["X"] != 900 {
		t.Error("X offsets past the end of chr1", gs.offset)
	}
	if gs.total != 1300 {
		t.Error("total genome width", gs.total)
	}
	if gs.x("X", 400) != 1300 {
		t.Error("coordinate mapping", gs.x("X", 400))
	}
}

func TestChromTicks(t *testing.T) {
	gs := newGenomeScale(testResult().Snps)
	ticks := chromTicks{gs}.Ticks(0, gs.total)
	if len(ticks) != 2 || ticks[0].Label != "1" || ticks[1].Label != "X" {
		t.Error("one labeled tick per chromosome", ticks)
	}
}

func TestWriteComposite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1.png")
	Write(path, "s1", testResult(), 50)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal("composite figure not written:", err)
	}
	if info.Size() == 0 {
		t.Error("composite figure is empty")
	}

	// overwrite semantics: a second render replaces the file
	Write(path, "s1", testResult(), 50)
	if _, err = os.Stat(path); err != nil {
		t.Error("overwrite failed:", err)
	}
}

func TestTerminalPreview(t *testing.T) {
	if TerminalPreview(nil) != "" {
		t.Error("empty track previews as empty string")
	}
	if TerminalPreview(testResult().Snps) == "" {
		t.Error("non-empty track should render a sparkline")
	}
}
