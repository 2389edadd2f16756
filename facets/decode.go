package facets

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
)

// File names the engine driver writes into its result directory.
const (
	SummaryFile  = "summary.json"
	SegmentsFile = "segments.tsv"
	SnpsFile     = "snps.tsv.gz"
	FitFile      = "fit.rds"
)

type summary struct {
	Purity  *float64       `json:"purity"`
	Ploidy  float64        `json:"ploidy"`
	DipLogR float64        `json:"dipLogR"`
	Version string         `json:"version"`
	Flags   []string       `json:"flags"`
	Metrics *EngineMetrics `json:"metrics"`
	Genes   []GeneCall     `json:"genes"`
}

// ReadResultDir decodes a complete engine result directory into a Result.
func ReadResultDir(dir string) (*Result, error) {
	raw, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("reading engine summary: %w", err)
	}
	var s summary
	if err = json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding engine summary: %w", err)
	}

	res := &Result{
		Purity:  math.NaN(),
		Ploidy:  s.Ploidy,
		DipLogR: s.DipLogR,
		Version: s.Version,
		Flags:   s.Flags,
		Metrics: s.Metrics,
		Genes:   s.Genes,
		FitPath: filepath.Join(dir, FitFile),
	}
	if s.Purity != nil {
		res.Purity = *s.Purity
	}

	res.Segments, err = readSegments(filepath.Join(dir, SegmentsFile))
	if err != nil {
		return nil, err
	}
	res.Snps, err = readSnps(filepath.Join(dir, SnpsFile))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// segments.tsv column order written by the driver.
var segmentsHeader = []string{
	"chrom", "start", "end", "seg", "num.mark", "nhet", "cnlr.median", "mafR",
	"segclust", "cf", "tcn", "lcn", "cf.em", "tcn.em", "lcn.em",
}

func readSegments(path string) ([]Segment, error) {
	lines := fileio.Read(path)
	if len(lines) == 0 {
		return nil, fmt.Errorf("engine segments file is empty: %s", path)
	}
	if lines[0] != strings.Join(segmentsHeader, "\t") {
		return nil, fmt.Errorf("unexpected engine segments header: %s", lines[0])
	}

	var segs []Segment
	var err error
	for _, line := range lines[1:] {
		words := strings.Split(line, "\t")
		if len(words) != len(segmentsHeader) {
			return nil, fmt.Errorf("malformed segment row (%d fields): %s", len(words), line)
		}
		var s Segment
		s.Chrom = words[0]
		if s.Start, err = strconv.Atoi(words[1]); err != nil {
			return nil, fmt.Errorf("bad segment start %q: %w", words[1], err)
		}
		if s.End, err = strconv.Atoi(words[2]); err != nil {
			return nil, fmt.Errorf("bad segment end %q: %w", words[2], err)
		}
		s.Seg = mustInt(words[3], &err)
		s.NumMark = mustInt(words[4], &err)
		s.Nhet = mustInt(words[5], &err)
		s.CnlrMedian = mustFloat(words[6], &err)
		s.MafR = mustFloat(words[7], &err)
		s.SegClust = mustInt(words[8], &err)
		s.Cf = naFloat(words[9], &err)
		s.Tcn = mustInt(words[10], &err)
		s.Lcn = naInt(words[11], &err)
		s.CfEm = naFloat(words[12], &err)
		s.TcnEm = mustInt(words[13], &err)
		s.LcnEm = naInt(words[14], &err)
		if err != nil {
			return nil, fmt.Errorf("malformed segment row: %s: %w", line, err)
		}
		segs = append(segs, s)
	}
	return segs, nil
}

func readSnps(path string) ([]Snp, error) {
	in := fileio.EasyOpen(path)
	defer in.Close()

	line, done := fileio.EasyNextRealLine(in)
	if done || line != "chrom\tmaploc\tcnlr\tvalor\thet\tseg" {
		return nil, fmt.Errorf("unexpected engine snp header: %s", line)
	}

	var snps []Snp
	var err error
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		words := strings.Split(line, "\t")
		if len(words) != 6 {
			return nil, fmt.Errorf("malformed snp row: %s", line)
		}
		var s Snp
		s.Chrom = words[0]
		s.Pos = mustInt(words[1], &err)
		s.Cnlr = mustFloat(words[2], &err)
		s.Valor = naFloat(words[3], &err)
		s.Het = words[4] == "1"
		s.Seg = mustInt(words[5], &err)
		if err != nil {
			return nil, fmt.Errorf("malformed snp row: %s: %w", line, err)
		}
		snps = append(snps, s)
	}
	return snps, nil
}

func mustInt(s string, err *error) int {
	if *err != nil {
		return 0
	}
	var v int
	v, *err = strconv.Atoi(s)
	return v
}

func mustFloat(s string, err *error) float64 {
	if *err != nil {
		return 0
	}
	var v float64
	v, *err = strconv.ParseFloat(s, 64)
	return v
}

func naInt(s string, err *error) int {
	if s == "NA" {
		return LcnNA
	}
	return mustInt(s, err)
}

func naFloat(s string, err *error) float64 {
	if s == "NA" {
		return math.NaN()
	}
	return mustFloat(s, err)
}
