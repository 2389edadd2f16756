package report

import (
	"fmt"
	"math"

	"github.com/dasnellings/facetsTools/facets"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Flag thresholds for the fit diagnostics. A dipLogR far from zero or a
// noisy log ratio track both point at an unreliable baseline.
const (
	dipLogRLimit     = 1.0
	cnlrMadLimit     = 0.6
	discordanceLimit = 0.5
)

// Qc holds the fit-quality diagnostics for one pass.
type Qc struct {
	Label            string
	Segments         int
	PurityNA         bool
	DipLogRFlag      bool
	CnlrMad          float64
	WaterfallFlag    bool
	EmCncfDiscordant float64
	DiscordanceFlag  bool
	EngineFlags      int
}

// CheckFit derives the QC diagnostics for one pass from its result.
func CheckFit(label string, r *facets.Result) Qc {
	q := Qc{
		Label:       label,
		Segments:    len(r.Segments),
		PurityNA:    r.PurityNA(),
		DipLogRFlag: math.Abs(r.DipLogR) > dipLogRLimit,
		EngineFlags: len(r.Flags),
	}
	q.CnlrMad = cnlrMad(r.Snps)
	q.WaterfallFlag = q.CnlrMad > cnlrMadLimit

	var discordant int
	for i := range r.Segments {
		if r.Segments[i].TcnEm != r.Segments[i].Tcn {
			discordant++
		}
	}
	if len(r.Segments) > 0 {
		q.EmCncfDiscordant = float64(discordant) / float64(len(r.Segments))
	}
	q.DiscordanceFlag = q.EmCncfDiscordant > discordanceLimit
	return q
}

// WriteQc writes one diagnostic row per pass.
func WriteQc(path, sample string, rows []Qc) {
	out := fileio.EasyCreate(path)
	_, err := fmt.Fprintln(out, "sample\trun_type\tn_segments\tpurity_na\tdiplogr_flag\tcnlr_mad\twaterfall_flag\tem_cncf_discordance\tdiscordance_flag\tn_engine_flags")
	exception.PanicOnErr(err)
	for _, q := range rows {
		_, err = fmt.Fprintf(out, "%s\t%s\t%d\t%s\t%s\t%.4f\t%s\t%.4f\t%s\t%d\n",
			sample, q.Label, q.Segments, formatBool(q.PurityNA), formatBool(q.DipLogRFlag),
			q.CnlrMad, formatBool(q.WaterfallFlag), q.EmCncfDiscordant,
			formatBool(q.DiscordanceFlag), q.EngineFlags)
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}

// cnlrMad is the scaled median absolute deviation of the log ratio track.
func cnlrMad(snps []facets.Snp) float64 {
	if len(snps) == 0 {
		return 0
	}
	vals := make([]float64, len(snps))
	for i := range snps {
		vals[i] = snps[i].Cnlr
	}
	slices.Sort(vals)
	med := stat.Quantile(0.5, stat.Empirical, vals, nil)
	for i := range vals {
		vals[i] = math.Abs(vals[i] - med)
	}
	slices.Sort(vals)
	return 1.4826 * stat.Quantile(0.5, stat.Empirical, vals, nil)
}
