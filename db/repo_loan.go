package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"toolcrib/lending"
	"toolcrib/models"
)

type loanStore struct{ db *gorm.DB }

func (s *loanStore) Create(ctx context.Context, loan *models.Loan) error {
	return s.db.WithContext(ctx).Create(loan).Error
}

func (s *loanStore) FindOpenByItem(ctx context.Context, itemID string) ([]models.Loan, error) {
	var ls []models.Loan
	err := s.db.WithContext(ctx).
		Where("item_id = ? AND returned_at IS NULL", itemID).
		Order("lent_at DESC").
		Find(&ls).Error
	return ls, err
}

func (s *loanStore) FindHistoryByItem(ctx context.Context, itemID string) ([]models.Loan, error) {
	var ls []models.Loan
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("lent_at DESC").
		Find(&ls).Error
	return ls, err
}

func (s *loanStore) FindAllOpen(ctx context.Context) ([]lending.OpenLoan, error) {
	var rows []lending.OpenLoan
	err := s.db.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(`
			l.id AS loan_id, l.item_id, l.borrower_id,
			l.borrower_name, l.borrower_email, l.lent_at, l.notes,
			i.name AS item_name, i.category AS item_category, i.status AS item_status
		`).
		Joins("JOIN " + models.ItemTable + " i ON i.id = l.item_id").
		Where("l.returned_at IS NULL").
		Order("l.lent_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *loanStore) UpdateReturn(ctx context.Context, id string, returnedAt time.Time, notes string) error {
	return s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"returned_at": returnedAt,
			"notes":       notes,
		}).Error
}

var _ lending.LoanStore = (*loanStore)(nil)
