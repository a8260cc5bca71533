package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/gonum/floats"

	demand "heatdemand/internal/demand/domain"
)

const (
	chartLeft   = 28.0
	chartTop    = 22.0
	chartWidth  = 240.0
	chartHeight = 145.0
)

var palette = [][3]int{
	{31, 119, 180},
	{255, 127, 14},
	{44, 160, 44},
	{214, 39, 40},
	{148, 103, 189},
	{140, 86, 75},
}

// PDFChart writes a line chart of daily mean demand to Path.
type PDFChart struct {
	Path  string
	Title string
}

// Render draws the chart. An empty Path means no chart output is configured.
func (c PDFChart) Render(ctx context.Context, table *demand.Table) error {
	_ = ctx
	if c.Path == "" {
		return fmt.Errorf("%w: no chart path", ErrRendererUnavailable)
	}
	data, err := BuildChartPDF(table, c.Title)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path, data, 0o644)
}

// BuildChartPDF renders one landscape page with a line per building.
func BuildChartPDF(table *demand.Table, title string) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("report: nil table")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	drawChart(pdf, table, title)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DailyMeans averages each column per day; a trailing partial day is
// averaged over its own hours.
func DailyMeans(values []float64) []float64 {
	days := (len(values) + 23) / 24
	out := make([]float64, days)
	for d := 0; d < days; d++ {
		end := (d + 1) * 24
		if end > len(values) {
			end = len(values)
		}
		day := values[d*24 : end]
		out[d] = floats.Sum(day) / float64(len(day))
	}
	return out
}

func drawChart(pdf *gofpdf.Fpdf, table *demand.Table, title string) {
	if title == "" {
		title = "Heat demand"
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Text(chartLeft, 14, title)

	columns := table.Columns()
	series := make([][]float64, len(columns))
	maxY := 0.0
	for i, col := range columns {
		series[i] = DailyMeans(col.Values)
		if len(series[i]) > 0 {
			if m := floats.Max(series[i]); m > maxY {
				maxY = m
			}
		}
	}
	if maxY <= 0 {
		maxY = 1
	}
	maxY *= 1.05

	bottom := chartTop + chartHeight
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(chartLeft, chartTop, chartLeft, bottom)
	pdf.Line(chartLeft, bottom, chartLeft+chartWidth, bottom)

	pdf.SetFont("Arial", "", 8)
	pdf.SetLineWidth(0.1)
	for i := 0; i <= 5; i++ {
		v := maxY * float64(i) / 5
		y := bottom - chartHeight*float64(i)/5
		pdf.Line(chartLeft-1.5, y, chartLeft, y)
		pdf.Text(chartLeft-14, y+1, fmt.Sprintf("%.0f", v))
	}

	days := 0
	if len(series) > 0 {
		days = len(series[0])
	}
	index := table.Index()
	if days > 1 && index.Len() > 0 {
		start := index.Start()
		for d := 0; d < days; d++ {
			day := start.Add(time.Duration(d) * 24 * time.Hour)
			if day.Day() != 1 {
				continue
			}
			x := chartLeft + chartWidth*float64(d)/float64(days-1)
			pdf.Line(x, bottom, x, bottom+1.5)
			pdf.Text(x-3, bottom+5, day.Format("Jan"))
		}
	}

	pdf.SetFont("Arial", "", 10)
	pdf.Text(chartLeft+chartWidth/2-5, bottom+12, "Date")
	pdf.TransformBegin()
	pdf.TransformRotate(90, 10, chartTop+chartHeight/2+20)
	pdf.Text(10, chartTop+chartHeight/2+20, "Heat demand in kW")
	pdf.TransformEnd()

	pdf.SetLineWidth(0.35)
	for i, values := range series {
		color := palette[i%len(palette)]
		pdf.SetDrawColor(color[0], color[1], color[2])
		for d := 1; d < len(values); d++ {
			x0 := chartLeft + chartWidth*float64(d-1)/float64(days-1)
			x1 := chartLeft + chartWidth*float64(d)/float64(days-1)
			y0 := bottom - chartHeight*values[d-1]/maxY
			y1 := bottom - chartHeight*values[d]/maxY
			pdf.Line(x0, y0, x1, y1)
		}

		ly := chartTop + 4 + float64(i)*5
		lx := chartLeft + chartWidth - 40
		pdf.Line(lx, ly-1, lx+8, ly-1)
		pdf.SetFont("Arial", "", 9)
		pdf.Text(lx+10, ly, columns[i].Name)
	}
	pdf.SetDrawColor(0, 0, 0)
}
