// Package igv writes IGV-format segmentation files from a fit.
package igv

import (
	"fmt"
	"io"

	"github.com/dasnellings/facetsTools/facets"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// WriteSeg writes a tab-delimited IGV segmentation file. With adjust true
// the segment means are re-centered on the diploid baseline (cnlr median
// minus dipLogR); otherwise the raw medians are written. An existing file
// is overwritten.
func WriteSeg(path, sample string, r *facets.Result, adjust bool) {
	out := fileio.EasyCreate(path)
	writeSeg(out, sample, r, adjust)
	err := out.Close()
	exception.PanicOnErr(err)
}

func writeSeg(out io.Writer, sample string, r *facets.Result, adjust bool) {
	_, err := fmt.Fprintln(out, "ID\tchrom\tloc.start\tloc.end\tnum.mark\tseg.mean")
	exception.PanicOnErr(err)
	for i := range r.Segments {
		s := &r.Segments[i]
		mean := s.CnlrMedian
		if adjust {
			mean -= r.DipLogR
		}
		_, err = fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%d\t%.4f\n",
			sample, s.Chrom, s.Start, s.End, s.NumMark, mean)
		exception.PanicOnErr(err)
	}
}
