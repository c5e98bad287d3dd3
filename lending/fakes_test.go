package lending

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"toolcrib/logging"
	"toolcrib/models"
)

// --- in-memory fakes ---
//
// fakeTx simulates the storage layer: RunInTransaction serializes callers
// (standing in for the row lock) and applies the callback to a copy of the
// state, committing the copy only when the callback succeeds. That gives the
// same all-or-nothing behavior the real transaction manager provides.

var errInjected = errors.New("injected storage failure")

type fakeState struct {
	items map[string]models.Item
	users map[string]models.User
	loans map[string]models.Loan
}

func newFakeState() *fakeState {
	return &fakeState{
		items: map[string]models.Item{},
		users: map[string]models.User{},
		loans: map[string]models.Loan{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	return c
}

type fakeTx struct {
	mu     sync.Mutex
	st     *fakeState
	failOn string // "loans.create" or "items.updateStatus"
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	work := f.st.clone()
	if err := fn(ctx, &fakeStores{st: work, failOn: f.failOn}); err != nil {
		return err
	}
	f.st = work
	return nil
}

type fakeStores struct {
	st     *fakeState
	failOn string
}

func (f *fakeStores) Items() ItemStore         { return &fakeItems{f} }
func (f *fakeStores) Borrowers() BorrowerStore { return &fakeBorrowers{f} }
func (f *fakeStores) Loans() LoanStore         { return &fakeLoans{f} }

type fakeItems struct{ s *fakeStores }

func (x *fakeItems) FindByID(_ context.Context, id string) (*models.Item, error) {
	it, ok := x.s.st.items[id]
	if !ok {
		return nil, ErrNoRow
	}
	cp := it
	return &cp, nil
}

func (x *fakeItems) FindByIDForUpdate(ctx context.Context, id string) (*models.Item, error) {
	return x.FindByID(ctx, id)
}

func (x *fakeItems) UpdateStatus(_ context.Context, id string, status models.ItemStatus) error {
	if x.s.failOn == "items.updateStatus" {
		return errInjected
	}
	it, ok := x.s.st.items[id]
	if !ok {
		return ErrNoRow
	}
	it.Status = status
	x.s.st.items[id] = it
	return nil
}

type fakeBorrowers struct{ s *fakeStores }

func (x *fakeBorrowers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := x.s.st.users[id]
	if !ok {
		return nil, ErrNoRow
	}
	cp := u
	return &cp, nil
}

type fakeLoans struct{ s *fakeStores }

func (x *fakeLoans) Create(_ context.Context, loan *models.Loan) error {
	if x.s.failOn == "loans.create" {
		return errInjected
	}
	x.s.st.loans[loan.ID] = *loan
	return nil
}

func (x *fakeLoans) FindOpenByItem(_ context.Context, itemID string) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range x.s.st.loans {
		if l.ItemID == itemID && l.ReturnedAt == nil {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LentAt.After(out[j].LentAt) })
	return out, nil
}

func (x *fakeLoans) FindHistoryByItem(_ context.Context, itemID string) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range x.s.st.loans {
		if l.ItemID == itemID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LentAt.After(out[j].LentAt) })
	return out, nil
}

func (x *fakeLoans) FindAllOpen(_ context.Context) ([]OpenLoan, error) {
	var out []OpenLoan
	for _, l := range x.s.st.loans {
		if l.ReturnedAt != nil {
			continue
		}
		it := x.s.st.items[l.ItemID]
		out = append(out, OpenLoan{
			LoanID:        l.ID,
			ItemID:        l.ItemID,
			BorrowerID:    l.BorrowerID,
			BorrowerName:  l.BorrowerName,
			BorrowerEmail: l.BorrowerEmail,
			LentAt:        l.LentAt,
			Notes:         l.Notes,
			ItemName:      it.Name,
			ItemCategory:  it.Category,
			ItemStatus:    it.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LentAt.After(out[j].LentAt) })
	return out, nil
}

func (x *fakeLoans) UpdateReturn(_ context.Context, id string, returnedAt time.Time, notes string) error {
	l, ok := x.s.st.loans[id]
	if !ok {
		return ErrNoRow
	}
	l.ReturnedAt = &returnedAt
	l.Notes = notes
	x.s.st.loans[id] = l
	return nil
}

// committedLoans is the coordinator's read side: it always sees the last
// committed state.
type committedLoans struct{ tx *fakeTx }

func (c *committedLoans) with() *fakeLoans {
	return &fakeLoans{&fakeStores{st: c.tx.st}}
}

func (c *committedLoans) Create(ctx context.Context, loan *models.Loan) error {
	c.tx.mu.Lock()
	defer c.tx.mu.Unlock()
	return c.with().Create(ctx, loan)
}

func (c *committedLoans) FindOpenByItem(ctx context.Context, itemID string) ([]models.Loan, error) {
	c.tx.mu.Lock()
	defer c.tx.mu.Unlock()
	return c.with().FindOpenByItem(ctx, itemID)
}

func (c *committedLoans) FindHistoryByItem(ctx context.Context, itemID string) ([]models.Loan, error) {
	c.tx.mu.Lock()
	defer c.tx.mu.Unlock()
	return c.with().FindHistoryByItem(ctx, itemID)
}

func (c *committedLoans) FindAllOpen(ctx context.Context) ([]OpenLoan, error) {
	c.tx.mu.Lock()
	defer c.tx.mu.Unlock()
	return c.with().FindAllOpen(ctx)
}

func (c *committedLoans) UpdateReturn(ctx context.Context, id string, returnedAt time.Time, notes string) error {
	c.tx.mu.Lock()
	defer c.tx.mu.Unlock()
	return c.with().UpdateReturn(ctx, id, returnedAt, notes)
}

// --- helpers ---

func newTestCoordinator() (*Coordinator, *fakeTx) {
	tx := &fakeTx{st: newFakeState()}
	c := New(tx, &committedLoans{tx: tx}, logging.Nop{})
	return c, tx
}

func seedItem(tx *fakeTx, id string, status models.ItemStatus) {
	tx.st.items[id] = models.Item{ID: id, Name: "Cordless drill " + id, Category: "power tools", Status: status}
}

func seedUser(tx *fakeTx, id, name, email string) {
	tx.st.users[id] = models.User{ID: id, Name: name, Email: email, Role: models.RoleStaff}
}
