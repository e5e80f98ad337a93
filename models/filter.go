package models

import "strings"

// AllValues is the selector label meaning "no filter". It is only
// interpreted at input edges by ParseMatch.
const AllValues = "All"

// Match is a single-column filter: either no constraint or an exact value.
type Match struct {
	value string
	set   bool
}

// AnyValue returns a Match that accepts everything.
func AnyValue() Match {
	return Match{}
}

// Exactly returns a Match that accepts only v. The empty string is a valid
// value to match.
func Exactly(v string) Match {
	return Match{value: v, set: true}
}

// ParseMatch converts a selector value into a Match. Empty input and "All"
// mean no filter.
func ParseMatch(s string) Match {
	s = strings.TrimSpace(s)
	if s == "" || s == AllValues {
		return AnyValue()
	}
	return Exactly(s)
}

// Value returns the matched value and whether a constraint is set.
func (m Match) Value() (string, bool) {
	return m.value, m.set
}

// Accepts reports whether v satisfies the match.
func (m Match) Accepts(v string) bool {
	return !m.set || m.value == v
}

func (m Match) String() string {
	if !m.set {
		return AllValues
	}
	return m.value
}

// RatingRange is an inclusive rating bound.
type RatingRange struct {
	Min float64
	Max float64
}

// Contains reports whether r lies within the range.
func (rr RatingRange) Contains(r float64) bool {
	return r >= rr.Min && r <= rr.Max
}

// Filter selects reviews. All constraints are combined with AND; the zero
// value selects everything.
type Filter struct {
	Agent     Match
	OrderType Match
	Location  Match
	Rating    *RatingRange
}

// NewFilter builds a Filter from agent and order type selector values.
func NewFilter(agent, orderType string) Filter {
	return Filter{
		Agent:     ParseMatch(agent),
		OrderType: ParseMatch(orderType),
	}
}

// Accepts reports whether r satisfies every constraint.
func (f Filter) Accepts(r Review) bool {
	if !f.Agent.Accepts(r.AgentName) {
		return false
	}
	if !f.OrderType.Accepts(r.OrderType) {
		return false
	}
	if !f.Location.Accepts(r.Location) {
		return false
	}
	if f.Rating != nil && !f.Rating.Contains(r.Rating) {
		return false
	}
	return true
}
