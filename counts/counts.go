// Package counts loads the gzipped tab-delimited SNP pileup table that
// snp-pileup produces for a paired tumor/normal sample.
package counts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
)

// Locus is one SNP position with reference and alternate read depths for
// the normal (File1) and tumor (File2) samples.
type Locus struct {
	Chrom     string
	Pos       int
	Ref       string
	Alt       string
	NormalRef int
	NormalAlt int
	TumorRef  int
	TumorAlt  int
}

// NormalDepth is the total normal read depth at the locus.
func (l Locus) NormalDepth() int {
	return l.NormalRef + l.NormalAlt
}

// Table is the in-memory read count table. Read-only after load.
type Table struct {
	Path string
	Loci []Locus
}

// Columns required in the pileup header. Error/deletion count columns
// (File1E, File1D, ...) are tolerated and ignored.
var required = []string{"Chromosome", "Position", "Ref", "Alt", "File1R", "File1A", "File2R", "File2A"}

// Read loads a SNP pileup file. The file must carry a header row naming at
// least the required columns; any unreadable or malformed content is an
// error and aborts the run.
func Read(path string) (*Table, error) {
	in := fileio.EasyOpen(path)
	defer in.Close()

	header, done := fileio.EasyNextRealLine(in)
	if done {
		return nil, fmt.Errorf("counts file is empty: %s", path)
	}
	idx, err := headerIndex(header)
	if err != nil {
		return nil, fmt.Errorf("counts file %s: %w", path, err)
	}

	t := &Table{Path: path}
	var line string
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		l, err := parseLocus(line, idx)
		if err != nil {
			return nil, fmt.Errorf("counts file %s line %d: %w", path, len(t.Loci)+2, err)
		}
		t.Loci = append(t.Loci, l)
	}
	if len(t.Loci) == 0 {
		return nil, fmt.Errorf("counts file has a header but no loci: %s", path)
	}
	return t, nil
}

// PassingNormalDepth counts loci whose normal depth meets the threshold.
// Reported at load time; the engine applies the same filter internally.
func (t *Table) PassingNormalDepth(min int) int {
	var n int
	for i := range t.Loci {
		if t.Loci[i].NormalDepth() >= min {
			n++
		}
	}
	return n
}

func headerIndex(header string) (map[string]int, error) {
	words := strings.Split(header, "\t")
	idx := make(map[string]int)
	for i := range words {
		idx[words[i]] = i
	}
	for _, col := range required {
		if _, found := idx[col]; !found {
			return nil, fmt.Errorf("missing required column %s in header: %s", col, header)
		}
	}
	return idx, nil
}

func parseLocus(line string, idx map[string]int) (Locus, error) {
	var l Locus
	words := strings.Split(line, "\t")
	for _, col := range required {
		if idx[col] >= len(words) {
			return l, fmt.Errorf("truncated row: %s", line)
		}
	}
	l.Chrom = words[idx["Chromosome"]]
	l.Ref = words[idx["Ref"]]
	l.Alt = words[idx["Alt"]]

	var err error
	intCols := []struct {
		name string
		dst  *int
	}{
		{"Position", &l.Pos},
		{"File1R", &l.NormalRef},
		{"File1A", &l.NormalAlt},
		{"File2R", &l.TumorRef},
		{"File2A", &l.TumorAlt},
	}
	for _, c := range intCols {
		*c.dst, err = strconv.Atoi(words[idx[c.name]])
		if err != nil {
			return l, fmt.Errorf("non-integer %s value %q", c.name, words[idx[c.name]])
		}
	}
	if l.Pos < 1 {
		return l, fmt.Errorf("position must be >= 1, got %d", l.Pos)
	}
	return l, nil
}
