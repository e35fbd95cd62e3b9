package loan

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%032d", n)
	}
}

func TestBuildSchedule_MonthlyEvenSplit(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	items, err := BuildSchedule("L1", decimal.NewFromInt(1200), 12, FrequencyMonthly, start, seqID())
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if len(items) != 12 {
		t.Fatalf("len = %d, want 12", len(items))
	}
	for i, it := range items {
		if !it.Amount.Equal(decimal.NewFromInt(100)) || !it.Outstanding.Equal(it.Amount) {
			t.Fatalf("installment %d amount=%s outstanding=%s", i, it.Amount, it.Outstanding)
		}
		if it.Status != InstallmentActive || it.Seq != i+1 || it.LoanID != "L1" {
			t.Fatalf("installment %d unexpected: %+v", i, it)
		}
		want := start.AddDate(0, i+1, 0)
		if !it.DueDate.Equal(want) {
			t.Fatalf("installment %d due %v, want %v", i, it.DueDate, want)
		}
	}
}

func TestBuildSchedule_LastInstallmentAbsorbsResidue(t *testing.T) {
	cases := []struct {
		principal, each, last string
		term                  int
	}{
		{"1000", "333.33", "333.34", 3},
		{"1000", "2.78", "1.98", 360},
		{"10000000", "27777.78", "27776.98", 360},
		{"1200", "100", "100", 12},
		{"2500.55", "833.52", "833.51", 3},
	}
	for _, tc := range cases {
		principal := decimal.RequireFromString(tc.principal)
		items, err := BuildSchedule("L1", principal, tc.term, FrequencyMonthly, time.Now().UTC(), seqID())
		if err != nil {
			t.Fatalf("BuildSchedule(%s,%d): %v", tc.principal, tc.term, err)
		}
		if len(items) != tc.term {
			t.Fatalf("BuildSchedule(%s,%d): len = %d", tc.principal, tc.term, len(items))
		}
		sum := decimal.Zero
		for i, it := range items {
			want := tc.each
			if i == tc.term-1 {
				want = tc.last
			}
			if !it.Amount.Equal(decimal.RequireFromString(want)) || !it.Outstanding.Equal(it.Amount) {
				t.Fatalf("BuildSchedule(%s,%d): installment %d amount %s, want %s", tc.principal, tc.term, i, it.Amount, want)
			}
			sum = sum.Add(it.Amount)
		}
		if !sum.Equal(principal) {
			t.Fatalf("BuildSchedule(%s,%d): sum = %s, want %s", tc.principal, tc.term, sum, principal)
		}
	}
}

func TestBuildSchedule_PrincipalTooSmallForTerm(t *testing.T) {
	if _, err := BuildSchedule("L1", decimal.RequireFromString("1.80"), 360, FrequencyWeekly, time.Now().UTC(), seqID()); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestDueDate_Frequencies(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		f    Frequency
		i    int
		want time.Time
	}{
		{FrequencyMonthly, 0, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, 2, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{FrequencyBiweekly, 0, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
		{FrequencyBiweekly, 1, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{FrequencyWeekly, 3, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := DueDate(start, tc.f, tc.i); !got.Equal(tc.want) {
			t.Fatalf("DueDate(%s,%d) = %v, want %v", tc.f, tc.i, got, tc.want)
		}
	}
}

func TestBuildSchedule_Invalid(t *testing.T) {
	if _, err := BuildSchedule("L", decimal.NewFromInt(100), 0, FrequencyMonthly, time.Now(), seqID()); err != ErrInvalidSchedule {
		t.Fatalf("term 0: %v", err)
	}
	if _, err := BuildSchedule("L", decimal.Zero, 3, FrequencyMonthly, time.Now(), seqID()); err != ErrInvalidSchedule {
		t.Fatalf("zero principal: %v", err)
	}
	if _, err := BuildSchedule("L", decimal.NewFromInt(100), 3, "daily", time.Now(), seqID()); err != ErrInvalidSchedule {
		t.Fatalf("bad frequency: %v", err)
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusPaid, StatusOverdue} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status("closed").Valid() {
		t.Fatal("closed should be invalid")
	}
}
