package models

import "time"

const LoanTable = "tc_loans"

// Loan is one borrow-return cycle for an item. Rows are append-only: apart
// from setting ReturnedAt/Notes at return time they are never modified, and
// never deleted. BorrowerName/BorrowerEmail are snapshotted from the user row
// at lend time so later profile edits do not rewrite history.
type Loan struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID     string `gorm:"type:uuid;index;not null" json:"itemId"`
	BorrowerID string `gorm:"type:uuid;index;not null" json:"borrowerId"`

	BorrowerName  string `gorm:"size:255;not null" json:"borrowerName"`
	BorrowerEmail string `gorm:"size:255;not null" json:"borrowerEmail"`

	LentAt     time.Time  `gorm:"index;not null" json:"lentAt"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	Notes      string     `gorm:"size:2000" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Loan) TableName() string { return LoanTable }

// Open reports whether the loan is still out.
func (l *Loan) Open() bool { return l.ReturnedAt == nil }
