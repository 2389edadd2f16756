package persist

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/facets"
	"github.com/vertgenlab/gonomics/fileio"
)

func testResult(t *testing.T) *facets.Result {
	fit := filepath.Join(t.TempDir(), "fit.rds")
	if err := os.WriteFile(fit, []byte("serialized fit bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &facets.Result{
		Purity:  0.42,
		Ploidy:  2.81,
		DipLogR: -0.25,
		Version: "0.6.2",
		Flags:   []string{"one"},
		Segments: []facets.Segment{
			{Chrom: "1", Start: 100, End: 200, Seg: 1, NumMark: 10, Nhet: 4,
				CnlrMedian: 0.1, MafR: 0.02, SegClust: 1, Cf: 0.3, Tcn: 2, Lcn: 1,
				CfEm: 0.31, TcnEm: 2, LcnEm: 1},
			{Chrom: "2", Start: 10, End: 90, Seg: 2, NumMark: 5, Nhet: 2,
				CnlrMedian: -0.4, MafR: 0.5, SegClust: 2, Cf: math.NaN(), Tcn: 1,
				Lcn: facets.LcnNA, CfEm: math.NaN(), TcnEm: 1, LcnEm: facets.LcnNA},
		},
		Snps: []facets.Snp{
			{Chrom: "1", Pos: 150, Cnlr: 0.09, Valor: 0.4, Het: true, Seg: 1},
			{Chrom: "2", Pos: 50, Cnlr: -0.41, Valor: math.NaN(), Het: false, Seg: 2},
		},
		FitPath: fit,
	}
}

func TestRdsCopy(t *testing.T) {
	r := testResult(t)
	dest := filepath.Join(t.TempDir(), "s1.rds")
	if err := Rds(r.FitPath, dest); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(dest)
	if err != nil || string(raw) != "serialized fit bytes" {
		t.Error("rds copy should be byte-identical", err, string(raw))
	}
}

func TestRdsMissingSource(t *testing.T) {
	if err := Rds(filepath.Join(t.TempDir(), "nope.rds"), filepath.Join(t.TempDir(), "out.rds")); err == nil {
		t.Error("missing fit should be an error")
	}
}

func TestLegacyBundle(t *testing.T) {
	r := testResult(t)
	cfg := config.Default()
	cfg.SampleID = "s1"
	cfg.CountsFile = "counts.gz"
	dir := t.TempDir()
	prefix := filepath.Join(dir, "s1")
	if err := LegacyBundle(prefix, cfg, r, 50); err != nil {
		t.Fatal(err)
	}

	for _, suffix := range []string{".out", ".cncf.txt", ".Rdata"} {
		if _, err := os.Stat(prefix + suffix); err != nil {
			t.Error("legacy bundle should include", suffix, err)
		}
	}

	out := strings.Join(fileio.Read(prefix+".out"), "\n")
	if !strings.Contains(out, "# Purity = 0.4200") || !strings.Contains(out, "# cval = 50") {
		t.Error("out file contents", out)
	}

	cncf := fileio.Read(prefix + ".cncf.txt")
	if len(cncf) != 3 {
		t.Fatal("cncf should have header plus one row per segment", cncf)
	}
	if !strings.Contains(cncf[2], "\tNA\t") || !strings.HasSuffix(cncf[2], "\tNA") {
		t.Error("unknown cf and lcn should write as NA", cncf[2])
	}
}

// failWriter rejects every write, standing in for a full disk.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }

func TestWriteSnpsPropagatesWriteErrors(t *testing.T) {
	if err := writeSnps(failWriter{}, testResult(t).Snps); err == nil {
		t.Error("a failed write should surface as an error")
	}
}

func TestSnpTable(t *testing.T) {
	r := testResult(t)
	dest := filepath.Join(t.TempDir(), "s1.snps.txt.gz")
	if err := SnpTable(dest, r.Snps); err != nil {
		t.Fatal(err)
	}

	lines := fileio.Read(dest)
	if len(lines) != 3 {
		t.Fatal("expected header plus two rows", lines)
	}
	if lines[0] != "chrom\tmaploc\tcnlr\tvalor\thet\tseg" {
		t.Error("header", lines[0])
	}
	if lines[1] != "1\t150\t0.0900\t0.4000\t1\t1" {
		t.Error("het row", lines[1])
	}
	if lines[2] != "2\t50\t-0.4100\tNA\t0\t2" {
		t.Error("non-het row with NA valor", lines[2])
	}
}
