package listing

import (
	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
)

// DateStyle controls how dates are rendered. The zero value shows dates in
// the calendar they were recorded in.
type DateStyle struct {
	Calendar calendar.Calendar
	Convert  bool
}

func (s DateStyle) apply(dt datetime.DateTime) datetime.DateTime {
	if s.Convert {
		return datetime.Convert(dt, s.Calendar)
	}
	return dt
}

// Short renders dt at year level, or "-" when dt is nil.
func (s DateStyle) Short(dt datetime.DateTime) string {
	if dt == nil {
		return "-"
	}
	return datetime.Label(s.apply(dt))
}

// Long renders dt in full, or "-" when dt is nil.
func (s DateStyle) Long(dt datetime.DateTime) string {
	if dt == nil {
		return "-"
	}
	return s.apply(dt).String()
}
