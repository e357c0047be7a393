// Package skills models the checkbox groups of the review and generation
// forms as sets of enum values. A set serializes to the JSON array of
// selected names the backend expects, always in declaration order.
package skills

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FrontEnd is a UI automation skill.
type FrontEnd string

const (
	Selenium   FrontEnd = "selenium"
	Playwright FrontEnd = "playwright"
)

// BackEnd is an API testing skill.
type BackEnd string

const (
	Postman     BackEnd = "postman"
	RestAssured BackEnd = "restassured"
)

// TestType selects which kinds of tests code generation produces.
type TestType string

const (
	Positive TestType = "positive"
	Negative TestType = "negative"
	Edge     TestType = "edge"
)

// Option is a selectable value and its display label.
type Option[T ~string] struct {
	Value T
	Label string
}

var (
	FrontEndOptions = []Option[FrontEnd]{
		{Selenium, "Selenium"},
		{Playwright, "Playwright"},
	}
	BackEndOptions = []Option[BackEnd]{
		{Postman, "Postman"},
		{RestAssured, "RestAssured"},
	}
	TestTypeOptions = []Option[TestType]{
		{Positive, "Positive"},
		{Negative, "Negative"},
		{Edge, "Edge"},
	}
)

// Set is a set of values drawn from a fixed, ordered universe.
type Set[T ~string] struct {
	universe []Option[T]
	selected map[T]bool
}

// NewSet returns an empty set over the given options.
func NewSet[T ~string](options []Option[T]) *Set[T] {
	return &Set[T]{universe: options, selected: make(map[T]bool)}
}

// NewFrontEndSet returns a set of front-end skills containing values.
func NewFrontEndSet(values ...FrontEnd) (*Set[FrontEnd], error) {
	return newWith(FrontEndOptions, values)
}

// NewBackEndSet returns a set of back-end skills containing values.
func NewBackEndSet(values ...BackEnd) (*Set[BackEnd], error) {
	return newWith(BackEndOptions, values)
}

// NewTestTypeSet returns a set of test types containing values.
func NewTestTypeSet(values ...TestType) (*Set[TestType], error) {
	return newWith(TestTypeOptions, values)
}

func newWith[T ~string](options []Option[T], values []T) (*Set[T], error) {
	s := NewSet(options)
	for _, v := range values {
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add selects v. Values outside the universe are rejected.
func (s *Set[T]) Add(v T) error {
	if !s.Valid(v) {
		return fmt.Errorf("unknown value %q (allowed: %s)", v, strings.Join(s.Names(), ", "))
	}
	s.selected[v] = true
	return nil
}

// Remove deselects v.
func (s *Set[T]) Remove(v T) {
	delete(s.selected, v)
}

// Set selects or deselects v, the way a checkbox change event does.
func (s *Set[T]) Set(v T, checked bool) error {
	if !checked {
		s.Remove(v)
		return nil
	}
	return s.Add(v)
}

// Has reports whether v is selected.
func (s *Set[T]) Has(v T) bool {
	return s.selected[v]
}

// Valid reports whether v belongs to the universe.
func (s *Set[T]) Valid(v T) bool {
	for _, o := range s.universe {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Len returns the number of selected values.
func (s *Set[T]) Len() int {
	return len(s.selected)
}

// Values returns the selected values in declaration order.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, len(s.selected))
	for _, o := range s.universe {
		if s.selected[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

// Strings returns the selected values as plain strings, in declaration order.
func (s *Set[T]) Strings() []string {
	vals := s.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// Names returns every value of the universe.
func (s *Set[T]) Names() []string {
	out := make([]string, len(s.universe))
	for i, o := range s.universe {
		out[i] = string(o.Value)
	}
	return out
}

// Options returns the universe.
func (s *Set[T]) Options() []Option[T] {
	return s.universe
}

// Parse adds every comma-separated name in raw. Blank entries are ignored.
func (s *Set[T]) Parse(raw string) error {
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if err := s.Add(T(name)); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the selection as an array of names. An empty set
// encodes as [] rather than null.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// JSON returns the encoded selection as a string, the form multipart fields
// carry it in.
func (s *Set[T]) JSON() string {
	b, _ := s.MarshalJSON() // []string always marshals
	return string(b)
}
