package db

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolcrib/lending"
	"toolcrib/models"
)

// itemStore is the coordinator-facing view of item rows.
type itemStore struct{ db *gorm.DB }

func (s *itemStore) FindByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := s.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, mapNoRow(err)
	}
	return &it, nil
}

func (s *itemStore) FindByIDForUpdate(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, "id = ?", id).Error; err != nil {
		return nil, mapNoRow(err)
	}
	return &it, nil
}

func (s *itemStore) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error {
	return s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// --- catalog management ---

type ItemsQuery struct {
	Q      string // substring match on name/category
	Status string // "", or one of the ItemStatus values
	Page   int
	Size   int
}

type PagedItems struct {
	Total int64         `json:"total"`
	Items []models.Item `json:"items"`
}

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.db.WithContext(ctx).Model(&models.Item{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", like, like)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Item
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedItems{Total: total, Items: items}, nil
}

type UpdateItemInput struct {
	Name        *string
	Description *string
	Category    *string
	Status      *models.ItemStatus
}

// UpdateItemCatalog edits the catalog fields of an item. A status change is
// only allowed between Available and Maintenance; Lent belongs to the lending
// coordinator.
func (r *Repo) UpdateItemCatalog(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	var it models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		update := map[string]any{}
		if in.Name != nil {
			update["name"] = *in.Name
		}
		if in.Description != nil {
			update["description"] = *in.Description
		}
		if in.Category != nil {
			update["category"] = *in.Category
		}
		if in.Status != nil && *in.Status != it.Status {
			if *in.Status == models.StatusLent || it.Status == models.StatusLent {
				return ErrLentStatus
			}
			update["status"] = *in.Status
		}
		if len(update) == 0 {
			return nil
		}
		if err := tx.Model(&it).Updates(update).Error; err != nil {
			return err
		}
		return tx.First(&it, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem refuses to delete while any loan row references the item, so
// the audit trail stays intact. The check is explicit here rather than an
// ORM lifecycle hook.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("item_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrItemHasLoans
		}
		return tx.Delete(&models.Item{ID: id}).Error
	})
}

var _ lending.ItemStore = (*itemStore)(nil)
