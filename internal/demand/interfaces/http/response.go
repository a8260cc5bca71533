package http

import (
	"time"

	demand "heatdemand/internal/demand/domain"
)

type totalResponse struct {
	BuildingID   string  `json:"building_id"`
	Name         string  `json:"name"`
	ProfileType  string  `json:"shlp_type"`
	Configured   float64 `json:"configured_kwh"`
	AnnualDemand float64 `json:"annual_demand_kwh"`
	Deviation    float64 `json:"deviation"`
}

type summaryResponse struct {
	ID          string          `json:"id"`
	Year        int             `json:"year"`
	Country     string          `json:"country"`
	Generator   string          `json:"generator"`
	GeneratedAt string          `json:"generated_at"`
	Totals      []totalResponse `json:"totals"`
}

type holidayResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type peakResponse struct {
	BuildingID string  `json:"building_id"`
	At         string  `json:"at"`
	Value      float64 `json:"kw"`
}

type detailResponse struct {
	summaryResponse
	Hours    int               `json:"hours"`
	Start    string            `json:"start"`
	Holidays []holidayResponse `json:"holidays"`
	Peaks    []peakResponse    `json:"peaks"`
}

func toSummaryResponse(s demand.RunSummary) summaryResponse {
	totals := make([]totalResponse, 0, len(s.Totals))
	for _, t := range s.Totals {
		totals = append(totals, totalResponse{
			BuildingID:   t.BuildingID,
			Name:         t.Name,
			ProfileType:  string(t.ProfileType),
			Configured:   t.Configured,
			AnnualDemand: t.AnnualDemand,
			Deviation:    t.Deviation(),
		})
	}
	return summaryResponse{
		ID:          s.ID,
		Year:        s.Year,
		Country:     s.Country,
		Generator:   s.Generator,
		GeneratedAt: s.GeneratedAt.UTC().Format(time.RFC3339),
		Totals:      totals,
	}
}

func toDetailResponse(run *demand.Run) detailResponse {
	resp := detailResponse{
		summaryResponse: toSummaryResponse(run.Summary()),
		Hours:           run.Table.Len(),
		Holidays:        []holidayResponse{},
		Peaks:           []peakResponse{},
	}
	if run.Table.Len() > 0 {
		resp.Start = run.Table.Index().Start().Format(time.RFC3339)
	}
	for _, h := range run.Holidays.Sorted() {
		resp.Holidays = append(resp.Holidays, holidayResponse{Date: h.Date.String(), Label: h.Label})
	}
	for _, col := range run.Table.Columns() {
		at, value, err := run.Table.Peak(col.BuildingID)
		if err != nil {
			continue
		}
		resp.Peaks = append(resp.Peaks, peakResponse{
			BuildingID: col.BuildingID,
			At:         at.Format(time.RFC3339),
			Value:      value,
		})
	}
	return resp
}
