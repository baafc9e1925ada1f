package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders the files and frames charts as one go-echarts page.
func WriteHTML(w io.Writer, bars []Bar) error {
	files := make([]opts.BarData, len(bars))
	frames := make([]opts.BarData, len(bars))
	var totalFiles, totalFrames int
	for i, b := range bars {
		files[i] = opts.BarData{Value: b.Files}
		frames[i] = opts.BarData{Value: b.Frames}
		totalFiles += b.Files
		totalFrames += b.Frames
	}

	page := components.NewPage()
	page.SetPageTitle("Dataset statistics")
	page.AddCharts(
		barChart("Files per dataset", fmt.Sprintf("total=%d", totalFiles), "files", labels(bars), files),
		barChart("Frames per dataset", fmt.Sprintf("total=%d", totalFrames), "frames", labels(bars), frames),
	)
	return page.Render(w)
}

func barChart(title, subtitle, series string, x []string, y []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Dataset", AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: series}),
	)
	bar.SetXAxis(x).AddSeries(series, y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}
