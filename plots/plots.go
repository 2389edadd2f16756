// Package plots renders the composite six-panel fit figure: log ratio,
// variant allele log odds ratio, and the integer copy number and cellular
// fraction tracks under the EM and CNCF calling methods.
package plots

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/dasnellings/facetsTools/facets"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/exception"
	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Fixed raster dimensions of the composite figure.
const (
	widthPx  = 850
	heightPx = 999
	dpi      = 96
)

var (
	pointGray  = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	segRed     = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	trackBlack = color.Black
	baseBlue   = color.RGBA{R: 30, G: 60, B: 200, A: 255}
)

// genomeScale maps per-chromosome coordinates onto one continuous x axis.
type genomeScale struct {
	order  []string
	offset map[string]float64
	mid    []float64
	total  float64
}

func newGenomeScale(snps []facets.Snp) *genomeScale {
	maxPos := make(map[string]int)
	for i := range snps {
		if snps[i].Pos > maxPos[snps[i].Chrom] {
			maxPos[snps[i].Chrom] = snps[i].Pos
		}
	}
	gs := &genomeScale{offset: make(map[string]float64)}
	for chrom := range maxPos {
		gs.order = append(gs.order, chrom)
	}
	slices.Sort(gs.order)
	slices.SortStableFunc(gs.order, func(a, b string) int {
		return chromOrder(a) - chromOrder(b)
	})
	var cum float64
	for _, chrom := range gs.order {
		gs.offset[chrom] = cum
		gs.mid = append(gs.mid, cum+float64(maxPos[chrom])/2)
		cum += float64(maxPos[chrom])
	}
	gs.total = cum
	return gs
}

func (gs *genomeScale) x(chrom string, pos int) float64 {
	return gs.offset[chrom] + float64(pos)
}

// chromTicks labels chromosome midpoints on the shared x axis.
type chromTicks struct{ gs *genomeScale }

func (c chromTicks) Ticks(min, max float64) []plot.Tick {
	var ans []plot.Tick
	for i := range c.gs.mid {
		if c.gs.mid[i] >= min && c.gs.mid[i] <= max {
			ans = append(ans, plot.Tick{Value: c.gs.mid[i], Label: c.gs.order[i]})
		}
	}
	return ans
}

// Write renders the composite figure to path, overwriting any existing
// file. cval is echoed in the title so the figure is self-describing.
func Write(path, sample string, r *facets.Result, cval int) {
	gs := newGenomeScale(r.Snps)

	panels := []*plot.Plot{
		cnlrPanel(gs, r),
		valorPanel(gs, r),
		cnPanel(gs, r, true),
		cfPanel(gs, r, true),
		cnPanel(gs, r, false),
		cfPanel(gs, r, false),
	}
	title := fmt.Sprintf("%s | purity=%s ploidy=%.2f dipLogR=%.3f cval=%d",
		sample, formatPurity(r.Purity), r.Ploidy, r.DipLogR, cval)
	panels[0].Title.Text = title
	panels[0].Title.TextStyle.Font.Size = 11

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Inch*widthPx/dpi, vg.Inch*heightPx/dpi),
		vgimg.UseDPI(dpi),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(panels), Cols: 1, PadY: vg.Millimeter}
	plots := make([][]*plot.Plot, len(panels))
	for i := range panels {
		plots[i] = []*plot.Plot{panels[i]}
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range panels {
		panels[i].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	exception.PanicOnErr(err)
	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(f)
	exception.PanicOnErr(err)
	err = f.Close()
	exception.PanicOnErr(err)
}

func basePanel(gs *genomeScale, yLabel string) *plot.Plot {
	p := plot.New()
	p.X.Min, p.X.Max = 0, gs.total
	p.X.Tick.Marker = chromTicks{gs}
	p.X.Tick.Label.Font.Size = 7
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = 9
	p.Y.Tick.Label.Font.Size = 7
	return p
}

func cnlrPanel(gs *genomeScale, r *facets.Result) *plot.Plot {
	p := basePanel(gs, "log-ratio")
	addSnpScatter(p, gs, r.Snps, func(s facets.Snp) (float64, bool) { return s.Cnlr, true })

	base, err := plotter.NewLine(plotter.XYs{{X: 0, Y: r.DipLogR}, {X: gs.total, Y: r.DipLogR}})
	exception.PanicOnErr(err)
	base.Color = baseBlue
	base.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
	p.Add(base)

	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		return s.CnlrMedian, true
	}, segRed)
	return p
}

func valorPanel(gs *genomeScale, r *facets.Result) *plot.Plot {
	p := basePanel(gs, "log-odds-ratio")
	addSnpScatter(p, gs, r.Snps, func(s facets.Snp) (float64, bool) {
		return s.Valor, s.Het && !math.IsNaN(s.Valor)
	})
	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		if s.MafR < 0 {
			return 0, false
		}
		return math.Sqrt(s.MafR), true
	}, segRed)
	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		if s.MafR < 0 {
			return 0, false
		}
		return -math.Sqrt(s.MafR), true
	}, segRed)
	return p
}

func cnPanel(gs *genomeScale, r *facets.Result, em bool) *plot.Plot {
	label := "copy number (cncf)"
	if em {
		label = "copy number (em)"
	}
	p := basePanel(gs, label)
	p.Y.Min = -0.5
	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		if em {
			return float64(s.TcnEm), true
		}
		return float64(s.Tcn), true
	}, trackBlack)
	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		lcn := s.Lcn
		if em {
			lcn = s.LcnEm
		}
		if lcn == facets.LcnNA {
			return 0, false
		}
		// offset so the minor track stays visible under the total track
		return float64(lcn) - 0.1, true
	}, segRed)
	return p
}

func cfPanel(gs *genomeScale, r *facets.Result, em bool) *plot.Plot {
	label := "cellular fraction (cncf)"
	if em {
		label = "cellular fraction (em)"
	}
	p := basePanel(gs, label)
	p.Y.Min, p.Y.Max = 0, 1.05
	addSegmentLines(p, gs, r.Segments, func(s facets.Segment) (float64, bool) {
		cf := s.Cf
		if em {
			cf = s.CfEm
		}
		if math.IsNaN(cf) {
			return 0, false
		}
		return cf, true
	}, baseBlue)
	return p
}

func addSnpScatter(p *plot.Plot, gs *genomeScale, snps []facets.Snp, y func(facets.Snp) (float64, bool)) {
	pts := make(plotter.XYs, 0, len(snps))
	for i := range snps {
		if v, ok := y(snps[i]); ok {
			pts = append(pts, plotter.XY{X: gs.x(snps[i].Chrom, snps[i].Pos), Y: v})
		}
	}
	sc, err := plotter.NewScatter(pts)
	exception.PanicOnErr(err)
	sc.GlyphStyle.Color = pointGray
	sc.GlyphStyle.Radius = vg.Points(0.6)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
}

func addSegmentLines(p *plot.Plot, gs *genomeScale, segs []facets.Segment, y func(facets.Segment) (float64, bool), c color.Color) {
	for i := range segs {
		v, ok := y(segs[i])
		if !ok {
			continue
		}
		ln, err := plotter.NewLine(plotter.XYs{
			{X: gs.x(segs[i].Chrom, segs[i].Start), Y: v},
			{X: gs.x(segs[i].Chrom, segs[i].End), Y: v},
		})
		exception.PanicOnErr(err)
		ln.Color = c
		ln.Width = vg.Points(1.5)
		p.Add(ln)
	}
}

// TerminalPreview downsamples the genome-wide log ratio track into an
// ascii sparkline for verbose logging.
func TerminalPreview(snps []facets.Snp) string {
	const buckets = 120
	if len(snps) == 0 {
		return ""
	}
	step := len(snps) / buckets
	if step < 1 {
		step = 1
	}
	var series []float64
	for i := 0; i < len(snps); i += step {
		var sum float64
		var n int
		for j := i; j < i+step && j < len(snps); j++ {
			sum += snps[j].Cnlr
			n++
		}
		series = append(series, sum/float64(n))
	}
	return asciigraph.Plot(series, asciigraph.Height(8), asciigraph.Precision(2))
}

func formatPurity(purity float64) string {
	if math.IsNaN(purity) {
		return "NA"
	}
	return fmt.Sprintf("%.2f", purity)
}

func chromOrder(chrom string) int {
	switch chrom {
	case "X", "23":
		return 23
	case "Y", "24":
		return 24
	}
	var n int
	for i := 0; i < len(chrom); i++ {
		if chrom[i] < '0' || chrom[i] > '9' {
			return 99
		}
		n = n*10 + int(chrom[i]-'0')
	}
	return n
}
