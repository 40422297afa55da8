package model

import "strings"

// DateBound is a typed view over the free-form endDate strings: either a
// fixed value or an ongoing period. The stored contract stays string-based.
type DateBound struct {
	value   string
	ongoing bool
}

// Fixed returns a bound with a concrete value.
func Fixed(value string) DateBound { return DateBound{value: value} }

// Ongoing returns the open-ended bound.
func Ongoing() DateBound { return DateBound{ongoing: true} }

// ParseDateBound maps the Present sentinel (case-insensitive) to Ongoing.
func ParseDateBound(raw string) DateBound {
	if strings.EqualFold(strings.TrimSpace(raw), Present) {
		return Ongoing()
	}
	return Fixed(raw)
}

// IsOngoing reports whether the bound is open-ended.
func (d DateBound) IsOngoing() bool { return d.ongoing }

// String renders the bound back into the stored string form.
func (d DateBound) String() string {
	if d.ongoing {
		return Present
	}
	return d.value
}

// End returns the typed end bound of the entry.
func (e Experience) End() DateBound {
	if e.Current {
		return Ongoing()
	}
	return ParseDateBound(e.EndDate)
}

// End returns the typed end bound of the entry.
func (e Education) End() DateBound {
	return ParseDateBound(e.EndDate)
}
