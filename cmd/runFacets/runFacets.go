// runFacets orchestrates the external allele-specific copy number engine
// over one paired tumor/normal SNP pileup and writes the standard artifact
// set: composite figure, IGV segmentation files, run details, optional
// extended metrics, and the serialized fit.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/counts"
	"github.com/dasnellings/facetsTools/engine"
	"github.com/dasnellings/facetsTools/igv"
	"github.com/dasnellings/facetsTools/metrics"
	"github.com/dasnellings/facetsTools/persist"
	"github.com/dasnellings/facetsTools/plots"
	"github.com/dasnellings/facetsTools/report"
	"github.com/fatih/color"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

const version string = "0.1.0"

func usage() {
	fmt.Print(
		"runFacets - run allele-specific copy number segmentation on a tumor/normal SNP pileup\n" +
			"Version: " + version + "\n\n" +
			"Usage:\n" +
			"  runFacets -f counts.gz -D outdir -fl /path/to/R/library [options]\n\n" +
			"Required:\n" +
			"  -f,  --counts-file      gzipped tab-delimited SNP pileup file\n" +
			"  -D,  --directory        output directory (created if absent)\n" +
			"  -fl, --facets-lib-path  R library path containing the facets package\n\n" +
			"Options:\n" +
			"  -s,  --sample-id        sample id used to prefix outputs (default: counts file basename)\n" +
			"  -e,  --everything       also write qc, gene-level, arm-level, and per-SNP tables\n" +
			"  -g,  --genome           genome build: hg18, hg19, hg38 (default hg19)\n" +
			"  -c,  --cval             segmentation sensitivity (default 50)\n" +
			"  -pc, --purity-cval      purity pass sensitivity; setting it enables two-pass mode (default 100)\n" +
			"  -m,  --min-nhet         min heterozygous SNPs per segment (default 15)\n" +
			"  -pm, --purity-min-nhet  min heterozygous SNPs per segment, purity pass (default 15)\n" +
			"  -n,  --snp-window-size  SNP window size for pre-processing (default 250)\n" +
			"  -nd, --normal-depth     minimum normal sample depth (default 35)\n" +
			"  -d,  --dipLogR          manual diploid log ratio override (default: estimated)\n" +
			"  -S,  --seed             random seed passed to the engine (default 100)\n" +
			"  -l,  --legacy-output    write the legacy flat-file bundle instead of an .rds\n" +
			"  -v,  --verbose          verbosity level; >0 adds a terminal log-ratio preview (default 0)\n")
}

func main() {
	cfg := config.Default()

	flag.StringVar(&cfg.CountsFile, "f", "", "")
	flag.StringVar(&cfg.CountsFile, "counts-file", "", "")
	flag.StringVar(&cfg.SampleID, "s", "", "")
	flag.StringVar(&cfg.SampleID, "sample-id", "", "")
	flag.StringVar(&cfg.Directory, "D", "", "")
	flag.StringVar(&cfg.Directory, "directory", "", "")
	flag.StringVar(&cfg.FacetsLibPath, "fl", "", "")
	flag.StringVar(&cfg.FacetsLibPath, "facets-lib-path", "", "")
	flag.BoolVar(&cfg.Everything, "e", false, "")
	flag.BoolVar(&cfg.Everything, "everything", false, "")
	genome := flag.String("g", string(config.Hg19), "")
	flag.StringVar(genome, "genome", string(config.Hg19), "")
	flag.IntVar(&cfg.Cval, "c", cfg.Cval, "")
	flag.IntVar(&cfg.Cval, "cval", cfg.Cval, "")
	flag.IntVar(&cfg.PurityCval, "pc", cfg.PurityCval, "")
	flag.IntVar(&cfg.PurityCval, "purity-cval", cfg.PurityCval, "")
	flag.IntVar(&cfg.MinNhet, "m", cfg.MinNhet, "")
	flag.IntVar(&cfg.MinNhet, "min-nhet", cfg.MinNhet, "")
	flag.IntVar(&cfg.PurityMinNhet, "pm", cfg.PurityMinNhet, "")
	flag.IntVar(&cfg.PurityMinNhet, "purity-min-nhet", cfg.PurityMinNhet, "")
	flag.IntVar(&cfg.SnpWindowSize, "n", cfg.SnpWindowSize, "")
	flag.IntVar(&cfg.SnpWindowSize, "snp-window-size", cfg.SnpWindowSize, "")
	flag.IntVar(&cfg.NormalDepth, "nd", cfg.NormalDepth, "")
	flag.IntVar(&cfg.NormalDepth, "normal-depth", cfg.NormalDepth, "")
	flag.Float64Var(&cfg.DipLogR, "d", math.NaN(), "")
	flag.Float64Var(&cfg.DipLogR, "dipLogR", math.NaN(), "")
	flag.IntVar(&cfg.Seed, "S", cfg.Seed, "")
	flag.IntVar(&cfg.Seed, "seed", cfg.Seed, "")
	flag.BoolVar(&cfg.LegacyOutput, "l", false, "")
	flag.BoolVar(&cfg.LegacyOutput, "legacy-output", false, "")
	flag.IntVar(&cfg.Verbose, "v", 0, "")
	flag.IntVar(&cfg.Verbose, "verbose", 0, "")
	flag.Usage = usage
	flag.Parse()

	// the purity cval carries a displayed default, but two-pass mode only
	// engages when the flag appears on the command line
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "pc" || f.Name == "purity-cval" {
			cfg.TwoPass = true
		}
	})

	var err error
	if cfg.Genome, err = config.ParseGenome(*genome); err != nil {
		usage()
		errExit(err.Error())
	}
	if err = cfg.Validate(); err != nil {
		usage()
		errExit("\nERROR: " + err.Error())
	}

	eng := engine.NewRscript(cfg.FacetsLibPath)
	defer eng.Cleanup()
	if err = run(cfg, eng); err != nil {
		errExit("ERROR: " + err.Error())
	}
	color.HiGreen("runFacets finished: outputs in %s", cfg.Directory)
}

// run executes the whole pipeline against any Engine implementation.
func run(cfg config.Config, eng engine.Engine) error {
	t, err := counts.Read(cfg.CountsFile)
	if err != nil {
		return err
	}
	log.Printf("loaded %d loci from %s (%d at normal depth >= %d)",
		len(t.Loci), cfg.CountsFile, t.PassingNormalDepth(cfg.NormalDepth), cfg.NormalDepth)

	if err = os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := engine.Params{
		MinNhet:       cfg.MinNhet,
		SnpWindowSize: cfg.SnpWindowSize,
		NormalDepth:   cfg.NormalDepth,
		Genome:        cfg.Genome,
		Seed:          cfg.Seed,
		Everything:    cfg.Everything,
	}

	var passes []report.Pass
	if cfg.TwoPass {
		p := base
		p.Cval = cfg.PurityCval
		p.MinNhet = cfg.PurityMinNhet
		p.DipLogR = cfg.DipLogR
		purity, err := runPass(cfg, eng, t, "purity", p)
		if err != nil {
			return err
		}
		passes = append(passes, purity)

		// the hisens pass is seeded with the purity pass's baseline
		p = base
		p.Cval = cfg.Cval
		p.DipLogR = purity.Result.DipLogR
		hisens, err := runPass(cfg, eng, t, "hisens", p)
		if err != nil {
			return err
		}
		passes = append(passes, hisens)
	} else {
		p := base
		p.Cval = cfg.Cval
		p.DipLogR = cfg.DipLogR
		single, err := runPass(cfg, eng, t, "", p)
		if err != nil {
			return err
		}
		passes = append(passes, single)
	}

	writeRunDetails(cfg, passes)
	if cfg.Everything {
		writeExtended(cfg, passes)
	}
	return nil
}

// runPass invokes the engine once and writes the per-pass artifacts.
// label is empty in single-pass mode.
func runPass(cfg config.Config, eng engine.Engine, t *counts.Table, label string, p engine.Params) (report.Pass, error) {
	name := label
	if name == "" {
		name = "single"
	}
	log.Printf("starting %s pass: cval=%d min.nhet=%d", name, p.Cval, p.MinNhet)

	r, err := eng.Run(t, p)
	if err != nil {
		return report.Pass{}, fmt.Errorf("%s pass: %w", name, err)
	}
	log.Printf("%s pass complete: purity=%s ploidy=%.2f dipLogR=%.3f flags=%d",
		name, formatPurity(r.Purity), r.Ploidy, r.DipLogR, len(r.Flags))
	if cfg.Verbose > 0 {
		fmt.Println(plots.TerminalPreview(r.Snps))
	}

	prefix := cfg.Prefix(label)
	plots.Write(prefix+".png", cfg.Sample(), r, p.Cval)
	igv.WriteSeg(prefix+"_diplogR.adjusted.seg", cfg.Sample(), r, true)
	igv.WriteSeg(prefix+"_diplogR.unadjusted.seg", cfg.Sample(), r, false)

	if cfg.Everything {
		if err = persist.SnpTable(prefix+".snps.txt.gz", r.Snps); err != nil {
			return report.Pass{}, err
		}
	}
	if cfg.LegacyOutput {
		err = persist.LegacyBundle(prefix, cfg, r, p.Cval)
	} else {
		err = persist.Rds(r.FitPath, prefix+".rds")
	}
	if err != nil {
		return report.Pass{}, err
	}

	pass := report.Pass{Label: name, Result: r, Cval: p.Cval, MinNhet: p.MinNhet}
	if cfg.Everything {
		m := metrics.Compute(r.Segments, r.Metrics)
		pass.Metrics = &m
	}
	return pass, nil
}

// writeRunDetails writes the summary table, or routes it to a null sink
// under legacy output mode.
func writeRunDetails(cfg config.Config, passes []report.Pass) {
	if cfg.LegacyOutput {
		report.WriteRunDetails(io.Discard, cfg, passes)
		return
	}
	out := fileio.EasyCreate(cfg.Prefix("") + ".txt")
	report.WriteRunDetails(out, cfg, passes)
	err := out.Close()
	exception.PanicOnErr(err)
}

// writeExtended writes the qc, gene-level, and arm-level tables. Gene
// calls come from the hisens pass and arm calls from the purity pass in
// two-pass mode; single-pass mode uses the only pass for both.
func writeExtended(cfg config.Config, passes []report.Pass) {
	qc := make([]report.Qc, len(passes))
	for i := range passes {
		qc[i] = report.CheckFit(passes[i].Label, passes[i].Result)
	}
	report.WriteQc(cfg.Prefix("")+".qc.txt", cfg.Sample(), qc)

	genePass := passes[len(passes)-1]
	report.WriteGeneLevel(cfg.Prefix("")+".gene_level.txt", genePass.Result.Genes)

	armPass := passes[0]
	wgd := armPass.Metrics != nil && armPass.Metrics.GenomeDoubled
	arms := metrics.ArmLevelChanges(armPass.Result.Segments, cfg.Genome, wgd)
	report.WriteArmLevel(cfg.Prefix("")+".arm_level.txt", arms)
}

func formatPurity(purity float64) string {
	if math.IsNaN(purity) {
		return "NA"
	}
	return fmt.Sprintf("%.2f", purity)
}

func errExit(msg string) {
	color.New(color.FgHiRed).Fprintln(os.Stderr, msg)
	os.Exit(1)
}
