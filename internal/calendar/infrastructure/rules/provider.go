// Package rules computes public holidays from per-country rule tables.
package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	calendar "heatdemand/internal/calendar/domain"
)

const minGregorianYear = 1583

// Provider resolves holidays for the registered countries.
type Provider struct {
	countries map[string]Country
	extra     calendar.HolidaySet
}

// Option configures the provider.
type Option func(*Provider)

// WithCountry registers an additional country.
func WithCountry(country Country) Option {
	return func(p *Provider) {
		p.register(country)
	}
}

// WithExtraHolidays adds dates on top of the computed holidays.
func WithExtraHolidays(set calendar.HolidaySet) Option {
	return func(p *Provider) {
		if len(set) > 0 {
			p.extra = p.extra.Merge(set)
		}
	}
}

// NewProvider builds a provider knowing Germany and Austria.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		countries: make(map[string]Country),
		extra:     make(calendar.HolidaySet),
	}
	p.register(Germany)
	p.register(Austria)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) register(country Country) {
	p.countries[normalize(country.Code)] = country
	p.countries[normalize(country.Name)] = country
	for _, alias := range country.Aliases {
		p.countries[normalize(alias)] = country
	}
}

// Holidays returns the public holidays of country in year.
func (p *Provider) Holidays(ctx context.Context, country string, year int) (calendar.HolidaySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if year < minGregorianYear {
		return nil, fmt.Errorf("%w: %d", calendar.ErrInvalidYear, year)
	}
	c, ok := p.countries[normalize(country)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", calendar.ErrUnsupportedCountry, country)
	}

	set := make(calendar.HolidaySet, len(c.Rules))
	for _, rule := range c.Rules {
		date, label, applies := rule(year)
		if !applies {
			continue
		}
		set[date] = label
	}
	return set.Merge(p.extra.Year(year)), nil
}

// Supported returns the registered country codes.
func (p *Provider) Supported() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, c := range p.countries {
		if _, ok := seen[c.Code]; ok {
			continue
		}
		seen[c.Code] = struct{}{}
		codes = append(codes, c.Code)
	}
	sort.Strings(codes)
	return codes
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
