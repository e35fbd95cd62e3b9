package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"opticash-backend/internal/adapter/repository/mysql"
	"opticash-backend/internal/domain/category"
	domain "opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/testutil/testdb"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	incomes  *Usecase
	expenses *Usecase
	ana, bob user.Identity
	food     *category.Category
	salary   *category.Category
	retired  *category.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	repo := mysql.NewLedgerRepository(db)
	cats := mysql.NewCategoryRepository(db)
	f := &fixture{
		db:       db,
		incomes:  NewUsecase(domain.KindIncome, repo, cats),
		expenses: NewUsecase(domain.KindExpense, repo, cats),
	}
	f.ana = f.user(t, "ana")
	f.bob = f.user(t, "bob")
	f.food = f.category(t, "Food", category.TypeExpense, true)
	f.salary = f.category(t, "Salary", category.TypeIncome, true)
	f.retired = f.category(t, "Old", category.TypeExpense, false)
	return f
}

func (f *fixture) user(t *testing.T, name string) user.Identity {
	t.Helper()
	u := &user.User{ID: id.NewID32(), Name: name, Email: name + "@example.com", Status: user.StatusActive, Role: user.RoleUser}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) category(t *testing.T, name string, typ category.Type, active bool) *category.Category {
	t.Helper()
	c := &category.Category{ID: id.NewID32(), Name: name, Type: typ, Active: true}
	if err := f.db.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if !active {
		// gorm skips zero-value bools on create, so deactivate explicitly
		if err := f.db.Model(c).Update("active", false).Error; err != nil {
			t.Fatalf("deactivate category: %v", err)
		}
		c.Active = false
	}
	return c
}

func TestCreate_ValidatesCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]struct {
		uc  *Usecase
		cat string
	}{
		"income with expense category": {f.incomes, f.food.ID},
		"expense with income category": {f.expenses, f.salary.ID},
		"inactive category":            {f.expenses, f.retired.ID},
		"unknown category":             {f.expenses, id.NewID32()},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.uc.Create(ctx, f.ana, CreateInput{Description: "x", Amount: 10, CategoryID: tc.cat})
			if !errors.Is(err, domain.ErrInvalidCategory) {
				t.Fatalf("expected ErrInvalidCategory, got %v", err)
			}
		})
	}
}

func TestCreate_DefaultsAndDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expenses.now = func() time.Time { return time.Date(2024, 7, 9, 22, 15, 0, 0, time.UTC) }

	rec, err := f.expenses.Create(ctx, f.ana, CreateInput{Description: "  Groceries ", Amount: 45.5, CategoryID: f.food.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != "active" || rec.Kind != "expense" || rec.Description != "Groceries" || rec.CategoryName != "Food" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Date.Equal(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("default date = %v", rec.Date)
	}

	rec, err = f.expenses.Create(ctx, f.ana, CreateInput{Description: "Lunch", Amount: 12, CategoryID: f.food.ID, Date: "2024-03-05"})
	if err != nil || !rec.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("explicit date: %+v %v", rec, err)
	}

	if _, err := f.expenses.Create(ctx, f.ana, CreateInput{Description: "x", Amount: 1, CategoryID: f.food.ID, Date: "05/03/2024"}); !errors.Is(err, page.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.incomes.Create(ctx, f.ana, CreateInput{Description: "June pay", Amount: 3000, CategoryID: f.salary.ID, Date: "2024-06-30"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := "June salary"
	got, err := f.incomes.Update(ctx, f.ana, rec.ID, UpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != "modified" || got.Description != desc || got.Amount != 3000 || got.CategoryName != "Salary" {
		t.Fatalf("partial update: %+v", got)
	}

	wrong := f.food.ID
	if _, err := f.incomes.Update(ctx, f.ana, rec.ID, UpdateInput{CategoryID: &wrong}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := f.incomes.Update(ctx, f.bob, rec.ID, UpdateInput{Description: &desc}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("other user: expected ErrNotFound, got %v", err)
	}

	// modified records stay visible
	list, err := f.incomes.List(ctx, f.ana, ListQuery{})
	if err != nil || list.Total != 1 {
		t.Fatalf("List: %+v %v", list, err)
	}

	if err := f.incomes.Delete(ctx, f.ana, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.incomes.Get(ctx, f.ana, rec.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted record: expected ErrNotFound, got %v", err)
	}
	if err := f.incomes.Delete(ctx, f.ana, rec.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	var status string
	f.db.Table("incomes").Select("status").Where("id = ?", rec.ID).Scan(&status)
	if status != "deleted" {
		t.Fatalf("row status = %q, want deleted", status)
	}
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rent := f.category(t, "Rent", category.TypeExpense, true)

	for _, in := range []CreateInput{
		{Description: "Lunch at work", Amount: 10, CategoryID: f.food.ID, Date: "2024-05-01"},
		{Description: "Dinner", Amount: 20, CategoryID: f.food.ID, Date: "2024-05-10"},
		{Description: "May rent", Amount: 500, CategoryID: rent.ID, Date: "2024-05-31"},
		{Description: "June rent", Amount: 500, CategoryID: rent.ID, Date: "2024-06-01"},
	} {
		if _, err := f.expenses.Create(ctx, f.ana, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := f.expenses.Create(ctx, f.bob, CreateInput{Description: "Bob lunch", Amount: 7, CategoryID: f.food.ID}); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	cases := []struct {
		name string
		q    ListQuery
		want int64
	}{
		{"all mine", ListQuery{}, 4},
		{"search", ListQuery{Query: page.Query{Search: "RENT"}}, 2},
		{"category", ListQuery{CategoryID: f.food.ID}, 2},
		{"inclusive to", ListQuery{From: "2024-05-01", To: "2024-05-31"}, 3},
		{"from only", ListQuery{From: "2024-05-31"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.expenses.List(ctx, f.ana, tc.q)
			if err != nil || res.Total != tc.want {
				t.Fatalf("total = %v (err %v), want %d", res, err, tc.want)
			}
		})
	}

	p2, err := f.expenses.List(ctx, f.ana, ListQuery{Query: page.Query{Page: 2, Limit: 3}})
	if err != nil || len(p2.Items) != 1 || p2.TotalPages != 2 || p2.Items[0].Description != "Lunch at work" {
		t.Fatalf("page 2: %+v %v", p2, err)
	}
	if _, err := f.expenses.List(ctx, f.ana, ListQuery{To: "not-a-date"}); !errors.Is(err, page.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expenses.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	rent := f.category(t, "Rent", category.TypeExpense, true)

	for _, in := range []CreateInput{
		{Description: "a", Amount: 10, CategoryID: f.food.ID, Date: "2024-06-01"},
		{Description: "b", Amount: 15.5, CategoryID: f.food.ID, Date: "2024-05-20"},
		{Description: "c", Amount: 500, CategoryID: rent.ID, Date: "2024-06-02"},
		{Description: "old", Amount: 99, CategoryID: rent.ID, Date: "2022-01-01"},
	} {
		if _, err := f.expenses.Create(ctx, f.ana, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	gone, _ := f.expenses.Create(ctx, f.ana, CreateInput{Description: "gone", Amount: 1000, CategoryID: f.food.ID, Date: "2024-06-03"})
	if err := f.expenses.Delete(ctx, f.ana, gone.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	s, err := f.expenses.Stats(ctx, f.ana)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Total != 624.5 || s.Count != 4 {
		t.Fatalf("totals: %+v", s)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != "Rent" || s.ByCategory[0].Total != 599 || s.ByCategory[1].Count != 2 {
		t.Fatalf("by category: %+v", s.ByCategory)
	}
	if len(s.ByMonth) != StatsMonths {
		t.Fatalf("by month len = %d", len(s.ByMonth))
	}
	last, prev := s.ByMonth[StatsMonths-1], s.ByMonth[StatsMonths-2]
	if last.Month != "2024-06" || last.Total != 510 || last.Count != 2 {
		t.Fatalf("june bucket: %+v", last)
	}
	if prev.Month != "2024-05" || prev.Total != 15.5 {
		t.Fatalf("may bucket: %+v", prev)
	}
	if s.ByMonth[0].Month != "2023-07" || s.ByMonth[0].Count != 0 {
		t.Fatalf("oldest bucket: %+v", s.ByMonth[0])
	}

	empty, err := f.incomes.Stats(ctx, f.ana)
	if err != nil || empty.Count != 0 || len(empty.ByCategory) != 0 || len(empty.ByMonth) != StatsMonths {
		t.Fatalf("empty stats: %+v %v", empty, err)
	}
}

type deletedRecordRepo struct {
	domain.Repository
	saves int
}

func (r *deletedRecordRepo) GetByID(_ context.Context, k domain.Kind, userID, recordID string) (*domain.Record, error) {
	return &domain.Record{ID: recordID, UserID: userID, Kind: k, Status: domain.StatusDeleted}, nil
}

func (r *deletedRecordRepo) Save(context.Context, domain.Kind, *domain.Record) error {
	r.saves++
	return nil
}

func TestDeletedRecordsAreNotFound(t *testing.T) {
	repo := &deletedRecordRepo{}
	uc := NewUsecase(domain.KindExpense, repo, nil)
	ctx := context.Background()
	ana := user.Identity{UserID: "ana", Role: user.RoleUser}
	desc := "again"

	if _, err := uc.Get(ctx, ana, "r1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Update(ctx, ana, "r1", UpdateInput{Description: &desc}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := uc.Delete(ctx, ana, "r1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("deleted record was saved %d times", repo.saves)
	}
}
