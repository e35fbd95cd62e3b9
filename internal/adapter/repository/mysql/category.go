package mysql

import (
	"context"
	"strings"

	categoryDomain "opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"

	"gorm.io/gorm"
)

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *categoryDomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*categoryDomain.Category, error) {
	var out categoryDomain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, mapNotFound(err, categoryDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *CategoryRepository) FindActiveByNameType(ctx context.Context, name string, t categoryDomain.Type) (*categoryDomain.Category, error) {
	var out categoryDomain.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND type = ? AND active = ?", strings.ToLower(strings.TrimSpace(name)), t, true).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, categoryDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *CategoryRepository) ListActive(ctx context.Context, t categoryDomain.Type) ([]categoryDomain.Category, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if t != "" {
		q = q.Where("type = ?", t)
	}
	var out []categoryDomain.Category
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *CategoryRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []categoryDomain.Category
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c.Name
	}
	return out, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c *categoryDomain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) CountReferences(ctx context.Context, id string) (int64, int64, error) {
	var expenses, incomes int64
	if err := r.db.WithContext(ctx).Table(ledger.KindExpense.Table()).
		Where("category_id = ? AND status <> ?", id, ledger.StatusDeleted).
		Count(&expenses).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Table(ledger.KindIncome.Table()).
		Where("category_id = ? AND status <> ?", id, ledger.StatusDeleted).
		Count(&incomes).Error; err != nil {
		return 0, 0, err
	}
	return expenses, incomes, nil
}

type refCount struct {
	CategoryID string
	N          int64
}

func (r *CategoryRepository) countByCategory(ctx context.Context, k ledger.Kind) (map[string]int64, error) {
	var rows []refCount
	err := r.db.WithContext(ctx).Table(k.Table()).
		Select("category_id, COUNT(*) AS n").
		Where("status <> ?", ledger.StatusDeleted).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.N
	}
	return out, nil
}

func (r *CategoryRepository) UsageStats(ctx context.Context) ([]categoryDomain.Usage, error) {
	cats, err := r.ListActive(ctx, "")
	if err != nil {
		return nil, err
	}
	expenses, err := r.countByCategory(ctx, ledger.KindExpense)
	if err != nil {
		return nil, err
	}
	incomes, err := r.countByCategory(ctx, ledger.KindIncome)
	if err != nil {
		return nil, err
	}
	out := make([]categoryDomain.Usage, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryDomain.Usage{
			CategoryID: c.ID,
			Name:       c.Name,
			Type:       c.Type,
			Expenses:   expenses[c.ID],
			Incomes:    incomes[c.ID],
		})
	}
	return out, nil
}
