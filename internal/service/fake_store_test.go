package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
)

// fakeStore is an in-memory storage.Store for service tests. Failure hooks
// let individual tests inject errors on specific writes.
type fakeStore struct {
	users         map[int]*models.User
	resolutions   map[int]storage.Resolution // friendID -> resolution
	emails        map[string]storage.Resolution
	splits        map[int]*models.SplitEvent
	shares        map[int][]models.SplitShare
	debts         map[int]*models.Debt
	notifications []models.Notification

	nextSplitID int
	nextDebtID  int

	failCreateDebtFor    map[int]bool // debtorID -> fail
	failNotifications    bool
	failGetShares        bool
	cascadeErr           error
	notificationAttempts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:             map[int]*models.User{},
		resolutions:       map[int]storage.Resolution{},
		emails:            map[string]storage.Resolution{},
		splits:            map[int]*models.SplitEvent{},
		shares:            map[int][]models.SplitShare{},
		debts:             map[int]*models.Debt{},
		failCreateDebtFor: map[int]bool{},
		nextSplitID:       1,
		nextDebtID:        1,
	}
}

func (f *fakeStore) addFriend(friendID, userID int, name, email string) {
	f.resolutions[friendID] = storage.Resolution{UserID: userID, Name: name, Email: email, Resolved: true}
}

func (f *fakeStore) addContact(friendID int, name, email string) {
	f.resolutions[friendID] = storage.Resolution{Name: name, Email: email, Resolved: false}
}

func (f *fakeStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ResolveFriend(ctx context.Context, ownerID, friendID int) (storage.Resolution, error) {
	res, ok := f.resolutions[friendID]
	if !ok {
		return storage.Resolution{}, storage.ErrNotFound
	}
	return res, nil
}

func (f *fakeStore) ResolveEmail(ctx context.Context, email string) (storage.Resolution, error) {
	if res, ok := f.emails[email]; ok {
		return res, nil
	}
	return storage.Resolution{Email: email, Resolved: false}, nil
}

func (f *fakeStore) CreateSplit(ctx context.Context, split *models.SplitEvent, shares []models.SplitShare) error {
	split.ID = f.nextSplitID
	f.nextSplitID++
	split.Status = models.SplitStatusActive
	f.splits[split.ID] = split
	for i := range shares {
		shares[i].SplitID = split.ID
	}
	f.shares[split.ID] = shares
	return nil
}

func (f *fakeStore) GetSplit(ctx context.Context, id int) (*models.SplitEvent, error) {
	s, ok := f.splits[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) GetSplitShares(ctx context.Context, splitID int) ([]models.SplitShare, error) {
	if f.failGetShares {
		return nil, errors.New("shares unavailable")
	}
	return f.shares[splitID], nil
}

func (f *fakeStore) ListSplits(ctx context.Context, userID int) ([]models.SplitEvent, error) {
	var out []models.SplitEvent
	for _, s := range f.splits {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) UpdateSplitStatus(ctx context.Context, id int, status, settledAt string) (bool, error) {
	s, ok := f.splits[id]
	if !ok || s.Status != models.SplitStatusActive {
		return false, nil
	}
	s.Status = status
	s.SettledAt = sql.NullString{String: settledAt, Valid: settledAt != ""}
	return true, nil
}

func (f *fakeStore) CreateDebt(ctx context.Context, debt *models.Debt) error {
	if f.failCreateDebtFor[debt.DebtorID] {
		return fmt.Errorf("write failed for debtor %d", debt.DebtorID)
	}
	debt.ID = f.nextDebtID
	f.nextDebtID++
	if debt.Status == "" {
		debt.Status = models.DebtStatusPending
	}
	copied := *debt
	f.debts[debt.ID] = &copied
	return nil
}

func (f *fakeStore) GetDebt(ctx context.Context, id int) (*models.Debt, error) {
	d, ok := f.debts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeStore) ListDebts(ctx context.Context, userID int, filter storage.DebtFilter) ([]models.Debt, error) {
	var out []models.Debt
	for _, d := range f.debts {
		switch filter.Direction {
		case "owed":
			if d.CreditorID != userID {
				continue
			}
		case "owing":
			if d.DebtorID != userID {
				continue
			}
		default:
			if d.CreditorID != userID && d.DebtorID != userID {
				continue
			}
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeStore) UpdateDebtDetails(ctx context.Context, debt *models.Debt) (bool, error) {
	d, ok := f.debts[debt.ID]
	if !ok || d.Status != models.DebtStatusPending {
		return false, nil
	}
	d.Amount = debt.Amount
	d.Description = debt.Description
	d.DueDate = debt.DueDate
	return true, nil
}

func (f *fakeStore) TransitionDebt(ctx context.Context, id int, from, to, paidAt, method string) (bool, error) {
	d, ok := f.debts[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	if paidAt != "" {
		d.PaidAt.String = paidAt
		d.PaidAt.Valid = true
	}
	if method != "" {
		d.PaymentMethod.String = method
		d.PaymentMethod.Valid = true
	}
	return true, nil
}

func (f *fakeStore) CascadeDebts(ctx context.Context, splitID int, status, paidAt string) (int, error) {
	if f.cascadeErr != nil {
		return 0, f.cascadeErr
	}
	n := 0
	for _, d := range f.debts {
		if !d.SplitID.Valid || int(d.SplitID.Int64) != splitID || d.Status != models.DebtStatusPending {
			continue
		}
		d.Status = status
		if paidAt != "" {
			d.PaidAt.String = paidAt
			d.PaidAt.Valid = true
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.notificationAttempts++
	if f.failNotifications {
		return errors.New("notification write failed")
	}
	f.notifications = append(f.notifications, *n)
	return nil
}
