package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"gorm.io/gorm"
)

const expenseTypeColumns = `id, name, default_cgst_rate_bp, default_sgst_rate_bp, default_igst_rate_bp,
	description, is_active, created_at, updated_at`

type repository struct{}

func NewRepository() taxdomain.Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, item *taxdomain.ExpenseType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO expense_types (`+expenseTypeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Name,
		item.DefaultCGSTRateBP,
		item.DefaultSGSTRateBP,
		item.DefaultIGSTRateBP,
		item.Description,
		item.IsActive,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taxdomain.ExpenseType, error) {
	var item taxdomain.ExpenseType
	err := db.WithContext(ctx).Raw(
		`SELECT `+expenseTypeColumns+` FROM expense_types WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repository) FindByName(ctx context.Context, db *gorm.DB, name string) (*taxdomain.ExpenseType, error) {
	var item taxdomain.ExpenseType
	err := db.WithContext(ctx).Raw(
		`SELECT `+expenseTypeColumns+` FROM expense_types WHERE name = ?`,
		name,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter taxdomain.ListRequest) ([]taxdomain.ExpenseType, error) {
	var items []taxdomain.ExpenseType
	stmt := db.WithContext(ctx).Model(&taxdomain.ExpenseType{})

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	})).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, item *taxdomain.ExpenseType) error {
	return db.WithContext(ctx).Exec(
		`UPDATE expense_types
		 SET name = ?, default_cgst_rate_bp = ?, default_sgst_rate_bp = ?, default_igst_rate_bp = ?,
		     description = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		item.Name,
		item.DefaultCGSTRateBP,
		item.DefaultSGSTRateBP,
		item.DefaultIGSTRateBP,
		item.Description,
		item.IsActive,
		item.UpdatedAt,
		item.ID,
	).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM expense_types WHERE id = ?`, id).Error
}

func (r *repository) CountLineReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM expense_lines WHERE expense_type_id = ?`,
		id,
	).Scan(&count).Error
	return count, err
}
