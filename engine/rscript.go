package engine

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dasnellings/facetsTools/counts"
	"github.com/dasnellings/facetsTools/facets"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

//go:embed driver.R
var driverScript []byte

// Rscript drives the segmentation engine by running the embedded R driver
// as a subprocess. Each pass gets its own staging directory under Workdir;
// the serialized fit stays there until the caller persists it, so Cleanup
// must run after persistence.
type Rscript struct {
	LibPath string
	Bin     string
	Workdir string
	dirs    []string
}

// NewRscript returns an engine using the facets library installed under
// libPath, running the "Rscript" binary found on PATH.
func NewRscript(libPath string) *Rscript {
	return &Rscript{LibPath: libPath, Bin: "Rscript", Workdir: os.TempDir()}
}

// request mirrors the JSON the driver script reads. DipLogR is a pointer so
// "estimate it yourself" serializes as null.
type request struct {
	Counts     string   `json:"counts"`
	OutDir     string   `json:"out_dir"`
	LibPath    string   `json:"lib_path"`
	Cval       int      `json:"cval"`
	DipLogR    *float64 `json:"diplogr"`
	MinNhet    int      `json:"min_nhet"`
	SnpNbhd    int      `json:"snp_nbhd"`
	Ndepth     int      `json:"ndepth"`
	Genome     string   `json:"genome"`
	Seed       int      `json:"seed"`
	Everything bool     `json:"everything"`
}

// Run stages the counts table and a JSON request, invokes the driver, and
// decodes the result directory it wrote.
func (e *Rscript) Run(t *counts.Table, p Params) (*facets.Result, error) {
	dir, err := os.MkdirTemp(e.Workdir, "facets_pass_")
	if err != nil {
		return nil, fmt.Errorf("creating engine staging directory: %w", err)
	}
	e.dirs = append(e.dirs, dir)

	countsPath := filepath.Join(dir, "counts.tsv.gz")
	writeCounts(countsPath, t)

	req := request{
		Counts:     countsPath,
		OutDir:     dir,
		LibPath:    e.LibPath,
		Cval:       p.Cval,
		MinNhet:    p.MinNhet,
		SnpNbhd:    p.SnpWindowSize,
		Ndepth:     p.NormalDepth,
		Genome:     string(p.Genome),
		Seed:       p.Seed,
		Everything: p.Everything,
	}
	if !math.IsNaN(p.DipLogR) {
		d := p.DipLogR
		req.DipLogR = &d
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	reqPath := filepath.Join(dir, "request.json")
	if err = os.WriteFile(reqPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("writing engine request: %w", err)
	}
	driverPath := filepath.Join(dir, "driver.R")
	if err = os.WriteFile(driverPath, driverScript, 0o644); err != nil {
		return nil, fmt.Errorf("staging engine driver: %w", err)
	}

	cmd := exec.Command(e.Bin, "--vanilla", driverPath, reqPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		return nil, fmt.Errorf("segmentation engine failed: %w\n%s", err, stderr.String())
	}
	return facets.ReadResultDir(dir)
}

// Cleanup removes all staging directories created by previous Run calls.
func (e *Rscript) Cleanup() {
	for _, dir := range e.dirs {
		os.RemoveAll(dir)
	}
	e.dirs = nil
}

// writeCounts stages the loaded table back to disk for the driver in the
// snp-pileup column layout. Error/deletion counts are not retained in
// memory and are written as zero; the engine does not use them.
func writeCounts(path string, t *counts.Table) {
	out := fileio.EasyCreate(path)
	_, err := fmt.Fprintln(out, "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile1E\tFile1D\tFile2R\tFile2A\tFile2E\tFile2D")
	exception.PanicOnErr(err)
	for i := range t.Loci {
		l := &t.Loci[i]
		_, err = fmt.Fprintf(out, "%s\t%d\t%s\t%s\t%d\t%d\t0\t0\t%d\t%d\t0\t0\n",
			l.Chrom, l.Pos, l.Ref, l.Alt, l.NormalRef, l.NormalAlt, l.TumorRef, l.TumorAlt)
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}
