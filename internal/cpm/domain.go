package cpm

import "math"

// Domain is a closed time interval on the chart axis.
type Domain struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// Width returns the length of the domain in days.
func (d Domain) Width() float64 {
	return float64(d.End - d.Start)
}

// TimeDomain returns the span covering all dates, widened by padDays on both
// sides. A span of zero width is widened by one extra day on each side so it
// can still be projected. It reports false when no dates are given.
func TimeDomain(padDays float64, dates ...Day) (Domain, bool) {
	if len(dates) == 0 {
		return Domain{}, false
	}
	if padDays < 0 || math.IsNaN(padDays) {
		padDays = 0
	}

	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	if lo == hi {
		lo--
		hi++
	}
	pad := Day(padDays)
	return Domain{Start: lo - pad, End: hi + pad}, true
}

// ScheduleDomain returns the padded domain over every early and late date of
// the result.
func ScheduleDomain(r *Result, padDays float64) (Domain, bool) {
	dates := make([]Day, 0, 4*len(r.Activities))
	for _, id := range r.Order {
		s := r.Activities[id]
		dates = append(dates, s.ES, s.EF, s.LS, s.LF)
	}
	return TimeDomain(padDays, dates...)
}

// LinearScale maps days in a domain onto a numeric output range.
type LinearScale struct {
	Domain     Domain
	RangeStart float64
	RangeEnd   float64
}

// NewLinearScale returns a scale from d onto [r0, r1].
func NewLinearScale(d Domain, r0, r1 float64) LinearScale {
	return LinearScale{Domain: d, RangeStart: r0, RangeEnd: r1}
}

// Project maps a day onto the output range. Days outside the domain
// extrapolate linearly.
func (s LinearScale) Project(d Day) float64 {
	w := s.Domain.Width()
	if w == 0 {
		return s.RangeStart
	}
	t := float64(d-s.Domain.Start) / w
	return s.RangeStart + t*(s.RangeEnd-s.RangeStart)
}

// Invert maps an output value back onto the domain.
func (s LinearScale) Invert(v float64) Day {
	span := s.RangeEnd - s.RangeStart
	if span == 0 {
		return s.Domain.Start
	}
	t := (v - s.RangeStart) / span
	return s.Domain.Start + Day(t*s.Domain.Width())
}

// Ticks returns whole days inside the domain spaced every step days,
// starting at the first whole day at or after the domain start.
func (s LinearScale) Ticks(step int) []Day {
	if step <= 0 {
		step = 1
	}
	var ticks []Day
	for d := Day(math.Ceil(float64(s.Domain.Start))); d <= s.Domain.End; d += Day(step) {
		ticks = append(ticks, d)
	}
	return ticks
}
