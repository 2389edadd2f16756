package counts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadGzippedPileup(t *testing.T) {
	tab, err := Read("testdata/sample_counts.tsv.gz")
	if err != nil {
		t.Fatal("reading test pileup:", err)
	}
	if len(tab.Loci) != 4 {
		t.Fatal("expected 4 loci, got", len(tab.Loci))
	}

	first := tab.Loci[0]
	if first.Chrom != "1" || first.Pos != 1000 || first.Ref != "A" || first.Alt != "G" {
		t.Error("first locus misparsed", first)
	}
	if first.NormalRef != 20 || first.NormalAlt != 18 || first.TumorRef != 30 || first.TumorAlt != 5 {
		t.Error("first locus depths misparsed", first)
	}
	if first.NormalDepth() != 38 {
		t.Error("normal depth should sum ref and alt", first.NormalDepth())
	}
	if last := tab.Loci[3]; last.Chrom != "X" || last.Pos != 500 {
		t.Error("last locus misparsed", last)
	}
}

func TestPassingNormalDepth(t *testing.T) {
	tab, err := Read("testdata/sample_counts.tsv.gz")
	if err != nil {
		t.Fatal(err)
	}
	// depths are 38, 25, 29, 17
	if n := tab.PassingNormalDepth(25); n != 3 {
		t.Error("expected 3 loci at depth >= 25, got", n)
	}
	if n := tab.PassingNormalDepth(100); n != 0 {
		t.Error("expected 0 loci at depth >= 100, got", n)
	}
}

func TestReadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"missing column": "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile2R\n1\t100\tA\tG\t5\t5\t5\n",
		"bad integer":    "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile2R\tFile2A\n1\t100\tA\tG\tfive\t5\t5\t5\n",
		"truncated row":  "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile2R\tFile2A\n1\t100\tA\n",
		"zero position":  "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile2R\tFile2A\n1\t0\tA\tG\t5\t5\t5\t5\n",
		"no loci":        "Chromosome\tPosition\tRef\tAlt\tFile1R\tFile1A\tFile2R\tFile2A\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "counts.tsv")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Read(path); err == nil {
			t.Error("expected error for", name)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic or error for a missing counts file")
		}
	}()
	if _, err := Read(filepath.Join(t.TempDir(), "nope.tsv.gz")); err == nil {
		t.Error("expected error for missing file")
	}
}
