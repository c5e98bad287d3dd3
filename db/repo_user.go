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

type borrowerStore struct{ db *gorm.DB }

func (s *borrowerStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapNoRow(err)
	}
	return &u, nil
}

// --- borrower management ---

type ListUsersResult struct {
	Total int64         `json:"total"`
	Users []models.User `json:"users"`
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.db.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Total: total, Users: users}, nil
}

type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *models.Role
}

func (r *Repo) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		update := map[string]any{}
		if in.Name != nil {
			update["name"] = *in.Name
		}
		if in.Email != nil && *in.Email != u.Email {
			var n int64
			if err := tx.Model(&models.User{}).
				Where("email = ? AND id <> ?", *in.Email, id).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrEmailTaken
			}
			update["email"] = *in.Email
		}
		if in.Role != nil {
			update["role"] = *in.Role
		}
		if len(update) == 0 {
			return nil
		}
		if err := tx.Model(&u).Updates(update).Error; err != nil {
			return err
		}
		return tx.First(&u, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser refuses to delete while loan rows reference the user as
// borrower; the snapshot on the loan is not a substitute for the row, the
// foreign key still points here.
func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("borrower_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUserHasLoans
		}
		return tx.Delete(&models.User{ID: id}).Error
	})
}

var _ lending.BorrowerStore = (*borrowerStore)(nil)
