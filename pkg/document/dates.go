package document

import (
	"fmt"

	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

// EncodeDate returns the descriptor of dt, or nil when dt is nil.
func EncodeDate(dt datetime.DateTime) *DateDescriptor {
	switch d := dt.(type) {
	case nil:
		return nil
	case datetime.WithPrecision:
		return &DateDescriptor{Kind: KindPrecision, Precision: d.Precision.String(), Date: d.Date.String()}
	case datetime.Range:
		return &DateDescriptor{Kind: KindRange, Start: d.Start().String(), End: d.End().String()}
	case datetime.Alternative:
		dates := d.Dates()
		out := make([]string, len(dates))
		for i, date := range dates {
			out[i] = date.String()
		}
		return &DateDescriptor{Kind: KindAlternative, Dates: out}
	default:
		panic(fmt.Sprintf("document: unexpected date variant %T", dt))
	}
}

// DecodeDate parses a descriptor. A nil descriptor decodes to a nil date.
func DecodeDate(d *DateDescriptor) (datetime.DateTime, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case KindPrecision:
		precision := datetime.Exact
		if d.Precision != "" {
			p, err := datetime.ParsePrecision(d.Precision)
			if err != nil {
				return nil, err
			}
			precision = p
		}
		date, err := calendar.ParseDate(d.Date)
		if err != nil {
			return nil, err
		}
		dt, err := datetime.NewWithPrecision(date, precision)
		if err != nil {
			return nil, err
		}
		return dt, nil
	case KindRange:
		start, err := calendar.ParseDate(d.Start)
		if err != nil {
			return nil, fmt.Errorf("range start: %w", err)
		}
		end, err := calendar.ParseDate(d.End)
		if err != nil {
			return nil, fmt.Errorf("range end: %w", err)
		}
		r, err := datetime.NewRange(start, end)
		if err != nil {
			return nil, err
		}
		return r, nil
	case KindAlternative:
		dates := make([]calendar.Date, 0, len(d.Dates))
		for i, s := range d.Dates {
			date, err := calendar.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("alternative %d: %w", i, err)
			}
			dates = append(dates, date)
		}
		a, err := datetime.NewAlternative(dates...)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, errs.New(errs.ErrInvalidValue, "unknown date kind: %q", d.Kind)
	}
}
