package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// GetByName loads a company with its whole hall/estimate tree.
// Children come back in the order they were imported.
func (r *Repository) GetByName(ctx context.Context, name string) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).
		Preload("Halls", orderByPosition).
		Preload("Halls.Photos", orderByPosition).
		Preload("Halls.Includes", orderByPosition).
		Preload("Halls.Estimates", orderByPosition).
		Preload("Halls.Estimates.MealPrices", orderByPosition).
		Preload("Halls.Estimates.Options", orderByPosition).
		Preload("Halls.Estimates.Etcs", orderByPosition).
		Where("name = ?", name).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns companies with their halls but without estimates.
func (r *Repository) List(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).
		Preload("Halls", orderByPosition).
		Order("name").
		Find(&companies).Error
	return companies, err
}

// Replace swaps the stored catalog of company.Name for the given tree.
func (r *Repository) Replace(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteTree(tx, company.Name); err != nil {
			return err
		}
		if err := tx.Create(company).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCompany
			}
			return err
		}
		return nil
	})
}

func deleteTree(tx *gorm.DB, name string) error {
	var existing Company
	err := tx.Where("name = ?", name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var hallIDs []int64
	if err := tx.Model(&Hall{}).Where("company_id = ?", existing.ID).Pluck("id", &hallIDs).Error; err != nil {
		return err
	}

	if len(hallIDs) > 0 {
		var estimateIDs []int64
		if err := tx.Model(&Estimate{}).Where("hall_id IN ?", hallIDs).Pluck("id", &estimateIDs).Error; err != nil {
			return err
		}
		if len(estimateIDs) > 0 {
			for _, m := range []interface{}{&MealPrice{}, &EstimateOption{}, &EtcItem{}} {
				if err := tx.Where("estimate_id IN ?", estimateIDs).Delete(m).Error; err != nil {
					return err
				}
			}
		}
		for _, m := range []interface{}{&Estimate{}, &HallPhoto{}, &HallInclude{}} {
			if err := tx.Where("hall_id IN ?", hallIDs).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id IN ?", hallIDs).Delete(&Hall{}).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&Company{}, existing.ID).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
