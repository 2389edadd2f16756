package igv

import (
	"strings"
	"testing"

	"github.com/dasnellings/facetsTools/facets"
)

func testResult() *facets.Result {
	return &facets.Result{
		DipLogR: -0.25,
		Segments: []facets.Segment{
			{Chrom: "1", Start: 1000, End: 5000, NumMark: 120, CnlrMedian: 0.1},
			{Chrom: "2", Start: 100, End: 900, NumMark: 40, CnlrMedian: -0.75},
		},
	}
}

func TestWriteSegUnadjusted(t *testing.T) {
	var sb strings.Builder
	writeSeg(&sb, "s1", testResult(), false)
	want := "ID\tchrom\tloc.start\tloc.end\tnum.mark\tseg.mean\n" +
		"s1\t1\t1000\t5000\t120\t0.1000\n" +
		"s1\t2\t100\t900\t40\t-0.7500\n"
	if sb.String() != want {
		t.Errorf("unadjusted seg output mismatch\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteSegAdjusted(t *testing.T) {
	var sb strings.Builder
	writeSeg(&sb, "s1", testResult(), true)
	// seg.mean is re-centered on the diploid baseline: cnlr.median - dipLogR
	if !strings.Contains(sb.String(), "s1\t1\t1000\t5000\t120\t0.3500\n") {
		t.Error("adjusted mean should subtract dipLogR", sb.String())
	}
	if !strings.Contains(sb.String(), "s1\t2\t100\t900\t40\t-0.5000\n") {
		t.Error("adjusted mean should subtract dipLogR", sb.String())
	}
}

func TestWriteSegDeterministic(t *testing.T) {
	var a, b strings.Builder
	writeSeg(&a, "s1", testResult(), true)
	writeSeg(&b, "s1", testResult(), true)
	if a.String() != b.String() {
		t.Error("seg output should be byte-identical across runs")
	}
}
