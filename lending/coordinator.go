// Package lending enforces the borrow/return state machine for catalog items
// and guarantees that the item-status change and the loan-record change land
// together or not at all. It is the only component allowed to move an item in
// or out of Lent, and the only writer of loan rows.
package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"toolcrib/logging"
	"toolcrib/models"
)

// MaxNotesLen caps the notes accepted on a single lend or return call.
const MaxNotesLen = 1000

type Coordinator struct {
	tx    TxManager
	loans LoanStore // read side, no transaction
	log   logging.Logger
	now   func() time.Time
}

func New(tx TxManager, loans LoanStore, log logging.Logger) *Coordinator {
	return &Coordinator{tx: tx, loans: loans, log: log, now: time.Now}
}

// Lend moves an Available item to Lent and creates the open loan row, with
// the borrower's name and email snapshotted at this instant. Exactly one of
// two concurrent calls on the same item can succeed; the loser gets
// ErrAlreadyLent.
func (c *Coordinator) Lend(ctx context.Context, itemID, borrowerID, notes string) (*models.Item, *models.Loan, error) {
	if len(notes) > MaxNotesLen {
		return nil, nil, ErrNotesTooLong
	}

	var (
		item *models.Item
		loan *models.Loan
	)
	err := c.tx.RunInTransaction(ctx, func(ctx context.Context, s Stores) error {
		it, err := s.Items().FindByIDForUpdate(ctx, itemID)
		if errors.Is(err, ErrNoRow) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		switch it.Status {
		case models.StatusLent:
			return ErrAlreadyLent
		case models.StatusMaintenance:
			return ErrInMaintenance
		}

		// Status says Available; an open loan here means the invariant is
		// already broken and must not be papered over.
		open, err := s.Loans().FindOpenByItem(ctx, itemID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return integrityFault("open_loan_on_available_item",
				fmt.Sprintf("item %s has status %s but %d open loan(s)", it.ID, it.Status, len(open)))
		}

		b, err := s.Borrowers().FindByID(ctx, borrowerID)
		if errors.Is(err, ErrNoRow) {
			return ErrBorrowerNotFound
		}
		if err != nil {
			return err
		}

		now := c.now().UTC()
		l := &models.Loan{
			ID:            uuid.NewString(),
			ItemID:        it.ID,
			BorrowerID:    b.ID,
			BorrowerName:  b.Name,
			BorrowerEmail: b.Email,
			LentAt:        now,
			Notes:         notes,
		}
		if err := s.Loans().Create(ctx, l); err != nil {
			return err
		}
		if err := s.Items().UpdateStatus(ctx, it.ID, models.StatusLent); err != nil {
			return err
		}

		it.Status = models.StatusLent
		item, loan = it, l
		return nil
	})
	if err != nil {
		return nil, nil, c.classify(ctx, "lend", itemID, err)
	}
	return item, loan, nil
}

// Return moves a Lent item back to Available and closes its single open loan
// row. Notes, if given, are appended to the loan's existing notes.
func (c *Coordinator) Return(ctx context.Context, itemID, notes string) (*models.Item, *models.Loan, error) {
	if len(notes) > MaxNotesLen {
		return nil, nil, ErrNotesTooLong
	}

	var (
		item *models.Item
		loan *models.Loan
	)
	err := c.tx.RunInTransaction(ctx, func(ctx context.Context, s Stores) error {
		it, err := s.Items().FindByIDForUpdate(ctx, itemID)
		if errors.Is(err, ErrNoRow) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		switch it.Status {
		case models.StatusAvailable:
			return ErrNotLent
		case models.StatusMaintenance:
			return ErrInMaintenance
		}

		open, err := s.Loans().FindOpenByItem(ctx, itemID)
		if err != nil {
			return err
		}
		switch {
		case len(open) == 0:
			return integrityFault("lent_without_open_loan",
				fmt.Sprintf("item %s is %s but has no open loan", it.ID, it.Status))
		case len(open) > 1:
			return integrityFault("multiple_open_loans",
				fmt.Sprintf("item %s has %d simultaneously open loans", it.ID, len(open)))
		}

		l := open[0]
		now := c.now().UTC()
		merged := l.Notes
		if notes != "" {
			if merged == "" {
				merged = notes
			} else {
				merged = merged + "\n" + notes
			}
		}
		if err := s.Loans().UpdateReturn(ctx, l.ID, now, merged); err != nil {
			return err
		}
		if err := s.Items().UpdateStatus(ctx, it.ID, models.StatusAvailable); err != nil {
			return err
		}

		it.Status = models.StatusAvailable
		l.ReturnedAt = &now
		l.Notes = merged
		item, loan = it, &l
		return nil
	})
	if err != nil {
		return nil, nil, c.classify(ctx, "return", itemID, err)
	}
	return item, loan, nil
}

// History returns all loans for the item, most recent lent_at first. Never an
// error for an item with no loans; just an empty slice.
func (c *Coordinator) History(ctx context.Context, itemID string) ([]models.Loan, error) {
	return c.loans.FindHistoryByItem(ctx, itemID)
}

// ListOpenLoans returns every currently open loan joined with item data.
func (c *Coordinator) ListOpenLoans(ctx context.Context) ([]OpenLoan, error) {
	return c.loans.FindAllOpen(ctx)
}

// classify passes typed coordinator errors through unchanged, logging
// integrity faults as alerting conditions, and wraps everything else as a
// transaction failure.
func (c *Coordinator) classify(ctx context.Context, op, itemID string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindDataIntegrity {
			c.log.Error(ctx, "lending invariant violated",
				"op", op, "itemId", itemID, "reason", e.Reason, "detail", e.Error())
		}
		return e
	}
	c.log.Warn(ctx, "lending transaction failed", "op", op, "itemId", itemID, "err", err)
	return txFailure(err)
}
