// Package report formats the tabular summaries of a run: the run details
// table, the per-pass QC table, and the gene and arm level call tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/facets"
	"github.com/dasnellings/facetsTools/metrics"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Pass bundles one segmentation pass with the parameters that produced it.
// Metrics is nil unless extended output was requested.
type Pass struct {
	Label   string
	Result  *facets.Result
	Cval    int
	MinNhet int
	Metrics *metrics.Summary
}

var detailCols = []string{
	"sample", "run_type", "purity", "ploidy", "dipLogR", "facets_version",
	"genome", "snp_nbhd", "ndepth", "cval", "min_nhet", "seed", "flags",
}

var metricCols = []string{
	"genome_doubled", "fraction_cnv", "hypoploid", "loh_fraction", "lst", "ntai", "hrd_loh",
}

// WriteRunDetails writes one row per pass. dipLogR is rounded to two
// significant figures; flags are joined with ";". The destination is an
// io.Writer so legacy mode can route the table to a null sink.
func WriteRunDetails(out io.Writer, cfg config.Config, passes []Pass) {
	header := detailCols
	if cfg.Everything {
		header = append(append([]string{}, detailCols...), metricCols...)
	}
	_, err := fmt.Fprintln(out, strings.Join(header, "\t"))
	exception.PanicOnErr(err)

	for _, p := range passes {
		r := p.Result
		fields := []string{
			cfg.Sample(),
			p.Label,
			formatFloat(r.Purity),
			formatFloat(r.Ploidy),
			formatFloat(signif(r.DipLogR, 2)),
			r.Version,
			string(cfg.Genome),
			strconv.Itoa(cfg.SnpWindowSize),
			strconv.Itoa(cfg.NormalDepth),
			strconv.Itoa(p.Cval),
			strconv.Itoa(p.MinNhet),
			strconv.Itoa(cfg.Seed),
			strings.Join(r.Flags, ";"),
		}
		if cfg.Everything {
			fields = append(fields, metricFields(p.Metrics)...)
		}
		_, err = fmt.Fprintln(out, strings.Join(fields, "\t"))
		exception.PanicOnErr(err)
	}
}

func metricFields(m *metrics.Summary) []string {
	if m == nil {
		return []string{"NA", "NA", "NA", "NA", "NA", "NA", "NA"}
	}
	return []string{
		formatBool(m.GenomeDoubled),
		fmt.Sprintf("%.4f", m.FractionGenomeAltered),
		formatBool(m.Hypoploid),
		fmt.Sprintf("%.4f", m.LohFraction),
		formatCount(m.Lst),
		formatCount(m.Ntai),
		formatCount(m.HrdLoh),
	}
}

// WriteGeneLevel writes the engine's gene-level call table.
func WriteGeneLevel(path string, genes []facets.GeneCall) {
	out := fileio.EasyCreate(path)
	_, err := fmt.Fprintln(out, "gene\tchrom\tstart\tend\tseg\tmedian_cnlr_seg\ttcn\tlcn\tcn_state\tfilter")
	exception.PanicOnErr(err)
	for i := range genes {
		g := &genes[i]
		_, err = fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%d\t%.4f\t%s\t%s\t%s\t%s\n",
			g.Gene, g.Chrom, g.Start, g.End, g.Seg, g.CnlrMedian,
			formatCount(g.Tcn), formatCount(g.Lcn), g.CnState, g.Filter)
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}

// WriteArmLevel writes the arm-level copy number change table.
func WriteArmLevel(path string, arms []metrics.ArmCall) {
	out := fileio.EasyCreate(path)
	_, err := fmt.Fprintln(out, "arm\ttcn\tlcn\tcn_state\tfrac_of_arm")
	exception.PanicOnErr(err)
	for i := range arms {
		a := &arms[i]
		_, err = fmt.Fprintf(out, "%s\t%d\t%s\t%s\t%.4f\n",
			a.Arm, a.Tcn, formatCount(a.Lcn), a.CnState, a.FracOfArm)
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func formatCount(v int) string {
	if v < 0 {
		return "NA"
	}
	return strconv.Itoa(v)
}

// signif rounds to n significant figures, matching R's signif.
func signif(x float64, n int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	mag := math.Pow(10, float64(n)-math.Ceil(math.Log10(math.Abs(x))))
	return math.Round(x*mag) / mag
}
