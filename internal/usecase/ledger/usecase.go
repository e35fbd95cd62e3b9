// Package ledger implements income and expense bookkeeping. One Usecase serves one Kind.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"opticash-backend/internal/domain/category"
	domain "opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

// StatsMonths is the trailing window of the monthly breakdown.
const StatsMonths = 12

type Usecase struct {
	kind       domain.Kind
	repo       domain.Repository
	categories category.Repository
	now        func() time.Time
}

func NewUsecase(kind domain.Kind, repo domain.Repository, categories category.Repository) *Usecase {
	return &Usecase{kind: kind, repo: repo, categories: categories, now: time.Now}
}

func (u *Usecase) Kind() domain.Kind { return u.kind }

// owned loads one of the actor's records; deleted records count as missing.
func (u *Usecase) owned(ctx context.Context, actor user.Identity, recordID string) (*domain.Record, error) {
	rec, err := u.repo.GetByID(ctx, u.kind, actor.UserID, recordID)
	if err != nil {
		return nil, err
	}
	if !rec.Visible() {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// checkCategory requires an active category whose type matches the usecase kind.
func (u *Usecase) checkCategory(ctx context.Context, categoryID string) (*category.Category, error) {
	c, err := u.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}
	if !c.Active || c.Type != u.kind.CategoryType() {
		return nil, domain.ErrInvalidCategory
	}
	return c, nil
}

func (u *Usecase) parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return page.ParseDay(u.now().UTC().Format(time.DateOnly))
	}
	return page.ParseDay(raw)
}

func (u *Usecase) Create(ctx context.Context, actor user.Identity, in CreateInput) (*RecordDTO, error) {
	amount := decimal.NewFromFloat(in.Amount).Round(2)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	c, err := u.checkCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	date, err := u.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	rec := &domain.Record{
		ID:          id.NewID32(),
		UserID:      actor.UserID,
		CategoryID:  c.ID,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Date:        date,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		Kind:        u.kind,
	}
	if err := u.repo.Create(ctx, u.kind, rec); err != nil {
		return nil, err
	}
	logger.Get().Debug().
		Str("kind", string(u.kind)).
		Str("id", rec.ID).
		Str("user_id", rec.UserID).
		Msg("ledger record created")
	dto := toDTO(rec, map[string]string{c.ID: c.Name})
	return &dto, nil
}

// Get only sees the actor's own non-deleted records.
func (u *Usecase) Get(ctx context.Context, actor user.Identity, recordID string) (*RecordDTO, error) {
	rec, err := u.owned(ctx, actor, recordID)
	if err != nil {
		return nil, err
	}
	names, err := u.categories.GetNames(ctx, []string{rec.CategoryID})
	if err != nil {
		return nil, err
	}
	dto := toDTO(rec, names)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, actor user.Identity, q ListQuery) (*page.Result[RecordDTO], error) {
	pq := q.Query.Normalize()
	from, before, err := page.DayRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	items, total, err := u.repo.List(ctx, u.kind, domain.Filter{
		UserID:     actor.UserID,
		Search:     pq.Search,
		CategoryID: strings.TrimSpace(q.CategoryID),
		From:       from,
		Before:     before,
		Offset:     pq.Offset(),
		Limit:      pq.Limit,
	})
	if err != nil {
		return nil, err
	}
	names, err := u.categories.GetNames(ctx, categoryIDs(items))
	if err != nil {
		return nil, err
	}
	return page.New(page.Map(items, func(r domain.Record) RecordDTO { return toDTO(&r, names) }), total, pq), nil
}

// Update applies the given fields and always marks the record modified.
func (u *Usecase) Update(ctx context.Context, actor user.Identity, recordID string, in UpdateInput) (*RecordDTO, error) {
	rec, err := u.owned(ctx, actor, recordID)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID != rec.CategoryID {
		c, err := u.checkCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		rec.CategoryID = c.ID
	}
	if in.Description != nil {
		rec.Description = strings.TrimSpace(*in.Description)
	}
	if in.Amount != nil {
		amount := decimal.NewFromFloat(*in.Amount).Round(2)
		if !amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		rec.Amount = amount
	}
	if in.Date != nil {
		d, err := page.ParseDay(*in.Date)
		if err != nil {
			return nil, err
		}
		rec.Date = d
	}
	rec.Status = domain.StatusModified
	rec.UpdatedAt = u.now().UTC()
	if err := u.repo.Save(ctx, u.kind, rec); err != nil {
		return nil, err
	}
	names, err := u.categories.GetNames(ctx, []string{rec.CategoryID})
	if err != nil {
		return nil, err
	}
	dto := toDTO(rec, names)
	return &dto, nil
}

// Delete is soft: the record moves to status deleted and leaves the visible set.
func (u *Usecase) Delete(ctx context.Context, actor user.Identity, recordID string) error {
	rec, err := u.owned(ctx, actor, recordID)
	if err != nil {
		return err
	}
	rec.Status = domain.StatusDeleted
	rec.UpdatedAt = u.now().UTC()
	return u.repo.Save(ctx, u.kind, rec)
}

func (u *Usecase) Stats(ctx context.Context, actor user.Identity) (*StatsDTO, error) {
	total, count, err := u.repo.Totals(ctx, u.kind, actor.UserID)
	if err != nil {
		return nil, err
	}
	byCat, err := u.repo.TotalsByCategory(ctx, u.kind, actor.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(byCat))
	for _, c := range byCat {
		ids = append(ids, c.CategoryID)
	}
	names, err := u.categories.GetNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	since := domain.MonthStart(now).AddDate(0, -(StatsMonths - 1), 0)
	recent, err := u.repo.ListSince(ctx, u.kind, actor.UserID, since)
	if err != nil {
		return nil, err
	}

	out := &StatsDTO{
		Total:      total.InexactFloat64(),
		Count:      count,
		ByCategory: make([]CategoryTotalDTO, 0, len(byCat)),
	}
	for _, c := range byCat {
		out.ByCategory = append(out.ByCategory, CategoryTotalDTO{
			CategoryID: c.CategoryID,
			Name:       names[c.CategoryID],
			Total:      c.Total.InexactFloat64(),
			Count:      c.Count,
		})
	}
	for _, m := range domain.BucketByMonth(recent, now, StatsMonths) {
		out.ByMonth = append(out.ByMonth, MonthTotalDTO{
			Month: m.Month.Format("2006-01"),
			Total: m.Total.InexactFloat64(),
			Count: m.Count,
		})
	}
	return out, nil
}

func categoryIDs(items []domain.Record) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, r := range items {
		if _, ok := seen[r.CategoryID]; ok {
			continue
		}
		seen[r.CategoryID] = struct{}{}
		out = append(out, r.CategoryID)
	}
	return out
}
