package ledger

import (
	"testing"
	"time"

	"opticash-backend/internal/domain/category"

	"github.com/shopspring/decimal"
)

func TestKind_TableAndCategoryType(t *testing.T) {
	if KindIncome.Table() != "incomes" || KindExpense.Table() != "expenses" {
		t.Fatal("table mismatch")
	}
	if KindIncome.CategoryType() != category.TypeIncome || KindExpense.CategoryType() != category.TypeExpense {
		t.Fatal("category type mismatch")
	}
}

func TestBucketByMonth(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{Amount: decimal.NewFromInt(10), Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(5), Date: time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(7), Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(99), Date: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
	}
	got := BucketByMonth(recs, now, 12)
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	if !got[0].Month.Equal(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first month = %v", got[0].Month)
	}
	last := got[11]
	if !last.Month.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) || !last.Total.Equal(decimal.NewFromInt(15)) || last.Count != 2 {
		t.Fatalf("june bucket = %+v", last)
	}
	if !got[9].Total.Equal(decimal.NewFromInt(7)) || got[10].Count != 0 {
		t.Fatalf("april/may buckets = %+v %+v", got[9], got[10])
	}
	for _, m := range got {
		if m.Total.Equal(decimal.NewFromInt(99)) {
			t.Fatal("record outside window was counted")
		}
	}
}

func TestRecord_Visible(t *testing.T) {
	for s, want := range map[Status]bool{StatusActive: true, StatusModified: true, StatusDeleted: false} {
		r := Record{Status: s}
		if r.Visible() != want {
			t.Fatalf("Visible(%s) = %v", s, r.Visible())
		}
	}
}
