package lending

import (
	"context"
	"time"

	"toolcrib/models"
)

// ItemStore is the coordinator's view of item rows. FindByIDForUpdate must
// take a row lock (or an equivalent serializable read) so that concurrent
// transitions on the same item serialize.
type ItemStore interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Item, error)
	UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error
}

// BorrowerStore is a read-only lookup used for the name/email snapshot.
type BorrowerStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LoanStore owns the append-only loan rows. FindOpenByItem returns open loans
// most recent first; FindHistoryByItem returns all loans for an item ordered
// by lent_at descending.
type LoanStore interface {
	Create(ctx context.Context, loan *models.Loan) error
	FindOpenByItem(ctx context.Context, itemID string) ([]models.Loan, error)
	FindHistoryByItem(ctx context.Context, itemID string) ([]models.Loan, error)
	FindAllOpen(ctx context.Context) ([]OpenLoan, error)
	UpdateReturn(ctx context.Context, id string, returnedAt time.Time, notes string) error
}

// Stores bundles the transactable stores handed to a transaction callback.
type Stores interface {
	Items() ItemStore
	Borrowers() BorrowerStore
	Loans() LoanStore
}

// TxManager runs fn inside a single storage transaction. If fn returns an
// error the transaction is rolled back and no write survives.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// OpenLoan is the dashboard read model: an open loan joined with the current
// item row. Flat so it can be scanned straight out of the join.
type OpenLoan struct {
	LoanID        string            `json:"loanId"`
	ItemID        string            `json:"itemId"`
	BorrowerID    string            `json:"borrowerId"`
	BorrowerName  string            `json:"borrowerName"`
	BorrowerEmail string            `json:"borrowerEmail"`
	LentAt        time.Time         `json:"lentAt"`
	Notes         string            `json:"notes,omitempty"`
	ItemName      string            `json:"itemName"`
	ItemCategory  string            `json:"itemCategory"`
	ItemStatus    models.ItemStatus `json:"itemStatus"`
}
