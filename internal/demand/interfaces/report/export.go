package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	demand "heatdemand/internal/demand/domain"
)

const timestampLayout = "2006-01-02 15:04"

// WriteCSV writes one row per hour: timestamp followed by one column per
// building.
func WriteCSV(w io.Writer, table *demand.Table) error {
	if table == nil {
		return errors.New("report: nil table")
	}
	cw := csv.NewWriter(w)
	columns := table.Columns()
	header := make([]string, 0, len(columns)+1)
	header = append(header, "timestamp")
	for _, col := range columns {
		header = append(header, col.BuildingID)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i := 0; i < table.Len(); i++ {
		ts, values := table.Row(i)
		record[0] = ts.UTC().Format(time.RFC3339)
		for j, v := range values {
			record[j+1] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildXLSX renders an hourly sheet through the stream writer and a summary
// sheet with annual sums.
func BuildXLSX(run *demand.Run) ([]byte, error) {
	if run == nil || run.Table == nil {
		return nil, errors.New("report: nil run")
	}
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	hourlySheet := "hourly"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Heat demand run")
	_ = f.SetCellValue(summarySheet, "A3", "Run")
	_ = f.SetCellValue(summarySheet, "B3", run.ID)
	_ = f.SetCellValue(summarySheet, "A4", "Year")
	_ = f.SetCellValue(summarySheet, "B4", run.Year)
	_ = f.SetCellValue(summarySheet, "A5", "Country")
	_ = f.SetCellValue(summarySheet, "B5", run.Country)
	_ = f.SetCellValue(summarySheet, "A6", "Generator")
	_ = f.SetCellValue(summarySheet, "B6", run.Generator)
	_ = f.SetCellValue(summarySheet, "A8", "Building")
	_ = f.SetCellValue(summarySheet, "B8", "Profile type")
	_ = f.SetCellValue(summarySheet, "C8", "Configured (kWh)")
	_ = f.SetCellValue(summarySheet, "D8", "Generated (kWh)")
	for i, total := range run.Totals() {
		row := i + 9
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), total.Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), string(total.ProfileType))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), total.Configured)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), total.AnnualDemand)
	}

	sw, err := f.NewStreamWriter(hourlySheet)
	if err != nil {
		return nil, err
	}
	columns := run.Table.Columns()
	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "Timestamp")
	for _, col := range columns {
		header = append(header, col.Name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}
	for i := 0; i < run.Table.Len(); i++ {
		ts, values := run.Table.Row(i)
		row := make([]interface{}, 0, len(values)+1)
		row = append(row, ts.UTC().Format(timestampLayout))
		for _, v := range values {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummaryPDF renders run metadata, annual totals, holidays and the
// daily chart.
func BuildSummaryPDF(run *demand.Run) ([]byte, error) {
	if run == nil || run.Table == nil {
		return nil, errors.New("report: nil run")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.Cell(0, 8, "Heat Demand Run")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", run.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Year: %d", run.Year))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Country: %s", run.Country))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generator: %s", run.Generator))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", run.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Building", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Configured (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Generated (kWh)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, total := range run.Totals() {
		pdf.CellFormat(40, 6, tr(total.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, string(total.ProfileType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.3f", total.Configured), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.3f", total.AnnualDemand), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(run.Holidays) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Holidays")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, h := range run.Holidays.Sorted() {
			pdf.Cell(0, 5, fmt.Sprintf("%s  %s", h.Date.String(), tr(h.Label)))
			pdf.Ln(5)
		}
	}

	pdf.AddPageFormat("L", gofpdf.SizeType{Wd: 210, Ht: 297})
	drawChart(pdf, run.Table, fmt.Sprintf("Heat demand %s %d", run.Country, run.Year))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
