// Package config holds the run parameters for a facetsTools invocation.
// A Config is built once from the command line and never mutated.
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Genome identifies the reference build the counts file was generated against.
type Genome string

const (
	Hg18 Genome = "hg18"
	Hg19 Genome = "hg19"
	Hg38 Genome = "hg38"
)

// ParseGenome converts a command line string to a Genome, rejecting
// anything other than the three supported builds.
func ParseGenome(s string) (Genome, error) {
	switch Genome(strings.ToLower(s)) {
	case Hg18:
		return Hg18, nil
	case Hg19:
		return Hg19, nil
	case Hg38:
		return Hg38, nil
	default:
		return "", fmt.Errorf("unrecognized genome build: %s (must be one of hg18, hg19, hg38)", s)
	}
}

// Config is the full parameter set for one run. DipLogR is NaN unless the
// user supplied a manual override. TwoPass is true when a purity cval was
// given on the command line, triggering the purity + hisens pass pair.
type Config struct {
	CountsFile    string
	SampleID      string
	Directory     string
	Everything    bool
	Genome        Genome
	Cval          int
	PurityCval    int
	TwoPass       bool
	MinNhet       int
	PurityMinNhet int
	SnpWindowSize int
	NormalDepth   int
	DipLogR       float64
	Seed          int
	LegacyOutput  bool
	FacetsLibPath string
	Verbose       int
}

// Default returns a Config populated with the standard parameter defaults.
// Required path fields are left empty and must be filled before Validate.
func Default() Config {
	return Config{
		Genome:        Hg19,
		Cval:          50,
		PurityCval:    100,
		MinNhet:       15,
		PurityMinNhet: 15,
		SnpWindowSize: 250,
		NormalDepth:   35,
		DipLogR:       math.NaN(),
		Seed:          100,
	}
}

// Validate checks required fields and parameter sanity. It performs no file
// system access so a bad invocation fails before any I/O happens.
func (c Config) Validate() error {
	if c.CountsFile == "" {
		return errors.New("must specify a counts file (-f)")
	}
	if c.Directory == "" {
		return errors.New("must specify an output directory (-D)")
	}
	if c.FacetsLibPath == "" {
		return errors.New("must specify the facets library path (-fl)")
	}
	if c.Cval < 1 {
		return fmt.Errorf("cval must be >= 1, got %d", c.Cval)
	}
	if c.TwoPass && c.PurityCval < 1 {
		return fmt.Errorf("purity cval must be >= 1, got %d", c.PurityCval)
	}
	if c.MinNhet < 1 || c.PurityMinNhet < 1 {
		return errors.New("min-nhet values must be >= 1")
	}
	if c.SnpWindowSize < 1 {
		return fmt.Errorf("snp window size must be >= 1, got %d", c.SnpWindowSize)
	}
	if c.NormalDepth < 1 {
		return fmt.Errorf("normal depth must be >= 1, got %d", c.NormalDepth)
	}
	return nil
}

// Sample returns the sample id, falling back to the counts file basename
// stripped of its compression and table extensions.
func (c Config) Sample() string {
	if c.SampleID != "" {
		return c.SampleID
	}
	base := filepath.Base(c.CountsFile)
	for _, ext := range []string{".gz", ".txt", ".tsv", ".csv", ".pileup"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Prefix returns the output path prefix for the given pass label. An empty
// label (single-pass mode) yields <dir>/<sample>; otherwise the label is
// appended with an underscore, e.g. <dir>/<sample>_purity.
func (c Config) Prefix(pass string) string {
	if pass == "" {
		return filepath.Join(c.Directory, c.Sample())
	}
	return filepath.Join(c.Directory, c.Sample()+"_"+pass)
}
