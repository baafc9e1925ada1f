package chart

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PNG canvas size.
var (
	Width  = 15 * vg.Inch
	Height = 6 * vg.Inch
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// WritePNG draws the files and frames charts side by side.
func WritePNG(w io.Writer, bars []Bar) error {
	files := make(plotter.Values, len(bars))
	frames := make(plotter.Values, len(bars))
	for i, b := range bars {
		files[i] = float64(b.Files)
		frames[i] = float64(b.Frames)
	}

	left, err := barPlot("Files per dataset", "Files", files, labels(bars))
	if err != nil {
		return err
	}
	right, err := barPlot("Frames per dataset", "Frames", frames, labels(bars))
	if err != nil {
		return err
	}

	img := vgimg.New(Width, Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: 2,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

func barPlot(title, ylabel string, v plotter.Values, names []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Dataset"
	p.Y.Label.Text = ylabel

	bc, err := plotter.NewBarChart(v, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bc.Color = barColor
	bc.LineStyle.Width = 0
	p.Add(bc)
	p.NominalX(names...)

	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}
