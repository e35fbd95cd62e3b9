package page

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   Query
		want Query
	}{
		{Query{}, Query{Page: 1, Limit: 10}},
		{Query{Page: -3, Limit: 0}, Query{Page: 1, Limit: 10}},
		{Query{Page: 2, Limit: 500}, Query{Page: 2, Limit: 100}},
		{Query{Page: 4, Limit: 25, Search: "x"}, Query{Page: 4, Limit: 25, Search: "x"}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if off := (Query{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("Offset = %d, want 20", off)
	}
}

func TestNew(t *testing.T) {
	r := New[int](nil, 21, Query{Page: 2, Limit: 10})
	if r.Items == nil || len(r.Items) != 0 {
		t.Fatal("nil items should become an empty slice")
	}
	if r.TotalPages != 3 || r.Total != 21 || r.Page != 2 || r.Limit != 10 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if New([]int{1}, 0, Query{Page: 1, Limit: 10}).TotalPages != 0 {
		t.Fatal("zero total means zero pages")
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(i int) string { return string(rune('a' + i - 1)) })
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("Map = %v", got)
	}
}

func TestDayRange(t *testing.T) {
	from, before, err := DayRange("2024-05-01", "2024-05-31T18:30:00Z")
	if err != nil {
		t.Fatalf("DayRange: %v", err)
	}
	if !from.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) || !before.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v .. %v", from, before)
	}

	from, before, err = DayRange("", "")
	if err != nil || from != nil || before != nil {
		t.Fatalf("empty range: %v %v %v", from, before, err)
	}

	for _, bad := range [][2]string{{"31/05/2024", ""}, {"", "yesterday"}, {"2024-06-02", "2024-06-01"}} {
		if _, _, err := DayRange(bad[0], bad[1]); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("DayRange(%q, %q): expected ErrInvalidDate, got %v", bad[0], bad[1], err)
		}
	}
}
