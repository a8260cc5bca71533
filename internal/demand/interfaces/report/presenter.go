package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	demand "heatdemand/internal/demand/domain"
)

// ErrRendererUnavailable signals that no chart can be drawn; callers fall
// back to printed sums.
var ErrRendererUnavailable = errors.New("report: renderer unavailable")

// Renderer draws a demand table.
type Renderer interface {
	Render(ctx context.Context, table *demand.Table) error
}

// Presenter shows a table as a chart or, failing that, as annual sums.
type Presenter struct {
	renderer Renderer
	out      io.Writer
	logger   *log.Logger
}

// NewPresenter constructs a presenter. renderer may be nil.
func NewPresenter(renderer Renderer, out io.Writer, logger *log.Logger) (*Presenter, error) {
	if out == nil {
		return nil, errors.New("report: nil output writer")
	}
	return &Presenter{renderer: renderer, out: out, logger: logger}, nil
}

// Present renders the chart when possible and prints sums otherwise.
func (p *Presenter) Present(ctx context.Context, table *demand.Table) error {
	if table == nil {
		return errors.New("report: nil table")
	}
	if p.renderer != nil {
		err := p.renderer.Render(ctx, table)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRendererUnavailable) {
			return err
		}
		if p.logger != nil {
			p.logger.Printf("chart skipped: %v", err)
		}
	}
	return WriteTotals(p.out, table.Totals())
}

// WriteTotals prints "Annual consumption:" followed by one aligned line per
// building.
func WriteTotals(w io.Writer, totals []demand.Total) error {
	if _, err := fmt.Fprintln(w, "Annual consumption:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, total := range totals {
		if _, err := fmt.Fprintf(tw, "%s\t%.3f\tkWh\t\n", total.Name, total.AnnualDemand); err != nil {
			return err
		}
	}
	return tw.Flush()
}
