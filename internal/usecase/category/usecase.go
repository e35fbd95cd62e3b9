package category

import (
	"context"
	"errors"
	"strings"

	domain "opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// DefaultCategories are created by Seed when missing.
var DefaultCategories = []CreateInput{
	{Name: "Alimentación", Type: string(domain.TypeExpense), Description: "Comida y supermercado"},
	{Name: "Transporte", Type: string(domain.TypeExpense), Description: "Combustible, transporte público"},
	{Name: "Vivienda", Type: string(domain.TypeExpense), Description: "Renta, hipoteca, mantenimiento"},
	{Name: "Servicios", Type: string(domain.TypeExpense), Description: "Luz, agua, internet, teléfono"},
	{Name: "Salud", Type: string(domain.TypeExpense), Description: "Consultas, medicamentos, seguros"},
	{Name: "Entretenimiento", Type: string(domain.TypeExpense), Description: "Ocio y suscripciones"},
	{Name: "Educación", Type: string(domain.TypeExpense), Description: "Colegiaturas, cursos, libros"},
	{Name: "Salario", Type: string(domain.TypeIncome), Description: "Sueldo fijo"},
	{Name: "Freelance", Type: string(domain.TypeIncome), Description: "Trabajos independientes"},
	{Name: "Inversiones", Type: string(domain.TypeIncome), Description: "Rendimientos e intereses"},
}

func (u *Usecase) List(ctx context.Context, t string) ([]CategoryDTO, error) {
	typ := domain.Type(t)
	if t != "" && !typ.Valid() {
		return nil, domain.ErrInvalid
	}
	items, err := u.repo.ListActive(ctx, typ)
	if err != nil {
		return nil, err
	}
	return page.Map(items, func(c domain.Category) CategoryDTO { return toDTO(&c) }), nil
}

func (u *Usecase) Get(ctx context.Context, categoryID string) (*CategoryDTO, error) {
	c, err := u.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

func (u *Usecase) Create(ctx context.Context, actor user.Identity, in CreateInput) (*CategoryDTO, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	typ := domain.Type(in.Type)
	if !typ.Valid() {
		return nil, domain.ErrInvalid
	}
	name := strings.TrimSpace(in.Name)

	switch _, err := u.repo.FindActiveByNameType(ctx, name, typ); {
	case err == nil:
		return nil, domain.ErrDuplicate
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	c := &domain.Category{
		ID:          id.NewID32(),
		Name:        name,
		Type:        typ,
		Description: strings.TrimSpace(in.Description),
		Active:      true,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// Update applies the supplied fields. A rename or reactivation that would collide with another
// active category of the same type is rejected.
func (u *Usecase) Update(ctx context.Context, actor user.Identity, categoryID string, in UpdateInput) (*CategoryDTO, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	c, err := u.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	// (name, type) stays unique among active categories, including on reactivation
	if c.Active {
		other, err := u.repo.FindActiveByNameType(ctx, c.Name, c.Type)
		switch {
		case err == nil && other.ID != c.ID:
			return nil, domain.ErrDuplicate
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// Delete deactivates a category that no visible income or expense references.
func (u *Usecase) Delete(ctx context.Context, actor user.Identity, categoryID string) error {
	if !actor.IsAdmin() {
		return user.ErrForbidden
	}
	c, err := u.repo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	expenses, incomes, err := u.repo.CountReferences(ctx, c.ID)
	if err != nil {
		return err
	}
	if expenses > 0 || incomes > 0 {
		return &domain.InUseError{Expenses: expenses, Incomes: incomes}
	}
	c.Active = false
	return u.repo.Save(ctx, c)
}

func (u *Usecase) Stats(ctx context.Context) ([]UsageDTO, error) {
	rows, err := u.repo.UsageStats(ctx)
	if err != nil {
		return nil, err
	}
	return page.Map(rows, func(r domain.Usage) UsageDTO {
		return UsageDTO{CategoryID: r.CategoryID, Name: r.Name, Type: string(r.Type), Expenses: r.Expenses, Incomes: r.Incomes}
	}), nil
}

// Seed inserts DefaultCategories that are not already active and reports how many were created.
func (u *Usecase) Seed(ctx context.Context) (int, error) {
	system := user.Identity{UserID: "system", Role: user.RoleAdmin}
	created := 0
	for _, in := range DefaultCategories {
		_, err := u.Create(ctx, system, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
		default:
			return created, err
		}
	}
	logger.Get().Info().Int("created", created).Msg("categories seeded")
	return created, nil
}
