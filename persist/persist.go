// Package persist handles the serialized fit outputs: the single .rds
// result file, the legacy flat-file bundle, and the optional compressed
// per-SNP table.
package persist

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dasnellings/facetsTools/config"
	"github.com/dasnellings/facetsTools/facets"
	"github.com/klauspost/pgzip"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Rds copies the engine-written serialized fit to dest. The fit object is
// produced R-side so it stays loadable by downstream R tooling.
func Rds(fitPath, dest string) error {
	in, err := os.Open(fitPath)
	if err != nil {
		return fmt.Errorf("opening serialized fit: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying serialized fit to %s: %w", dest, err)
	}
	return out.Close()
}

// LegacyBundle writes the older output layout for one pass: <prefix>.out
// with parameters and fit summary, <prefix>.cncf.txt with the per-segment
// table, and <prefix>.Rdata holding the serialized fit. Mutually exclusive
// with the .rds output.
func LegacyBundle(prefix string, cfg config.Config, r *facets.Result, cval int) error {
	writeOut(prefix+".out", cfg, r, cval)
	writeCncf(prefix+".cncf.txt", r)
	return Rds(r.FitPath, prefix+".Rdata")
}

func writeOut(path string, cfg config.Config, r *facets.Result, cval int) {
	out := fileio.EasyCreate(path)
	var err error
	put := func(format string, args ...interface{}) {
		_, err = fmt.Fprintf(out, format, args...)
		exception.PanicOnErr(err)
	}
	put("# TAG facets\n")
	put("# Version = %s\n", r.Version)
	put("# Input = %s\n", cfg.CountsFile)
	put("# Sample = %s\n", cfg.Sample())
	put("# Genome = %s\n", cfg.Genome)
	put("# cval = %d\n", cval)
	put("# snp.nbhd = %d\n", cfg.SnpWindowSize)
	put("# ndepth = %d\n", cfg.NormalDepth)
	put("# seed = %d\n", cfg.Seed)
	put("# Purity = %s\n", naFloat(r.Purity, "%.4f"))
	put("# Ploidy = %.4f\n", r.Ploidy)
	put("# dipLogR = %.4f\n", r.DipLogR)
	put("# Flags = %s\n", strings.Join(r.Flags, ";"))
	err = out.Close()
	exception.PanicOnErr(err)
}

func writeCncf(path string, r *facets.Result) {
	out := fileio.EasyCreate(path)
	_, err := fmt.Fprintln(out, "chrom\tstart\tend\tseg\tnum.mark\tnhet\tcnlr.median\tmafR\tsegclust\tcf\ttcn\tlcn\tcf.em\ttcn.em\tlcn.em")
	exception.PanicOnErr(err)
	for i := range r.Segments {
		s := &r.Segments[i]
		_, err = fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%d\t%.4f\t%.4f\t%d\t%s\t%d\t%s\t%s\t%d\t%s\n",
			s.Chrom, s.Start, s.End, s.Seg, s.NumMark, s.Nhet, s.CnlrMedian, s.MafR,
			s.SegClust, naFloat(s.Cf, "%.4f"), s.Tcn, naInt(s.Lcn),
			naFloat(s.CfEm, "%.4f"), s.TcnEm, naInt(s.LcnEm))
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}

// SnpTable writes the per-SNP annotated table gzip-compressed. The table
// is large, so compression uses pgzip's parallel writer.
func SnpTable(dest string, snps []facets.Snp) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	gz := pgzip.NewWriter(f)
	if err = writeSnps(gz, snps); err != nil {
		gz.Close()
		f.Close()
		return err
	}
	if err = gz.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSnps(out io.Writer, snps []facets.Snp) error {
	if _, err := fmt.Fprintln(out, "chrom\tmaploc\tcnlr\tvalor\thet\tseg"); err != nil {
		return err
	}
	for i := range snps {
		s := &snps[i]
		het := 0
		if s.Het {
			het = 1
		}
		_, err := fmt.Fprintf(out, "%s\t%d\t%.4f\t%s\t%d\t%d\n",
			s.Chrom, s.Pos, s.Cnlr, naFloat(s.Valor, "%.4f"), het, s.Seg)
		if err != nil {
			return err
		}
	}
	return nil
}

func naFloat(v float64, format string) string {
	if v != v {
		return "NA"
	}
	return fmt.Sprintf(format, v)
}

func naInt(v int) string {
	if v == facets.LcnNA {
		return "NA"
	}
	return fmt.Sprintf("%d", v)
}
