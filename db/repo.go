package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"toolcrib/lending"
)

// Errors surfaced by the catalog/borrower repo methods. The lending
// coordinator has its own taxonomy; these cover the CRUD surface.
var (
	ErrNotFound     = errors.New("record not found")
	ErrEmailTaken   = errors.New("email already in use")
	ErrItemHasLoans = errors.New("item has loan history")
	ErrUserHasLoans = errors.New("user has loan history")
	ErrLentStatus   = errors.New("lent status is owned by the lending workflow")
)

// Repo is the storage layer. It implements lending.Stores and
// lending.TxManager over one gorm handle; RunInTransaction re-binds the
// stores to the transaction handle.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Items() lending.ItemStore         { return &itemStore{db: r.db} }
func (r *Repo) Borrowers() lending.BorrowerStore { return &borrowerStore{db: r.db} }
func (r *Repo) Loans() lending.LoanStore         { return &loanStore{db: r.db} }

func (r *Repo) RunInTransaction(ctx context.Context, fn func(ctx context.Context, s lending.Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepo(tx))
	})
}

// mapNoRow translates gorm's not-found into the store contract sentinel.
func mapNoRow(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lending.ErrNoRow
	}
	return err
}
