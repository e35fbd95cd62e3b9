// Package page normalises page/limit parameters and builds the list envelope.
package page

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Query struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// Normalize applies defaults and caps the limit.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q Query) Offset() int { return (q.Page - 1) * q.Limit }

type Result[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func New[T any](items []T, total int64, q Query) *Result[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return &Result[T]{Items: items, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}
}

// Map converts each element with fn.
func Map[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

var ErrInvalidDate = errors.New("dates must be YYYY-MM-DD or RFC3339")

// ParseDay reads a calendar day as YYYY-MM-DD or an RFC3339 timestamp and floors it to midnight UTC.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, ErrInvalidDate
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DayRange turns optional inclusive from/to days into a half-open range [from, to+1d).
// Empty strings leave that side unbounded.
func DayRange(from, to string) (start, before *time.Time, err error) {
	if strings.TrimSpace(from) != "" {
		f, err := ParseDay(from)
		if err != nil {
			return nil, nil, err
		}
		start = &f
	}
	if strings.TrimSpace(to) != "" {
		t, err := ParseDay(to)
		if err != nil {
			return nil, nil, err
		}
		t = t.AddDate(0, 0, 1)
		before = &t
	}
	if start != nil && before != nil && !start.Before(*before) {
		return nil, nil, ErrInvalidDate
	}
	return start, before, nil
}
