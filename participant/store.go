// Package participant implements the per-node account store and the
// Prepare/Commit/Abort protocol handler.
package participant

import (
	"strconv"
	"time"

	"github.com/viney-shih/go-lock"
)

// Account is a committed, immutable account record.
type Account struct {
	AccountID string
	Name      string
	Email     string
	Balance   float64
	CreatedAt time.Time
}

// Reservation is a pending, not-yet-committed account record held under a
// transaction id.
type Reservation struct {
	TransactionID string
	AccountID     string
	Name          string
	Email         string
	Balance       float64
	CreatedAt     time.Time
}

// Store is the thread-safe container holding committed accounts, pending
// reservations, and the node's private monotonic id counter, all guarded by
// one lock so the email-conflict scan and the insert it gates are atomic.
type Store struct {
	latch         lock.Mutex
	committed     map[string]Account     // account_id -> Account
	pending       map[string]Reservation // transaction_id -> Reservation
	nextAccountID uint64
}

// NewStore returns an empty Store with the account id counter starting at 1.
func NewStore() *Store {
	return &Store{
		latch:         lock.NewCASMutex(),
		committed:     make(map[string]Account),
		pending:       make(map[string]Reservation),
		nextAccountID: 1,
	}
}

// HasPending reports whether transactionID already has a reservation.
func (s *Store) HasPending(transactionID string) bool {
	s.latch.Lock()
	defer s.latch.Unlock()
	_, ok := s.pending[transactionID]
	return ok
}

// EmailInCommitted reports whether email belongs to a committed account.
func (s *Store) EmailInCommitted(email string) bool {
	s.latch.Lock()
	defer s.latch.Unlock()
	return s.emailInCommittedLocked(email)
}

func (s *Store) emailInCommittedLocked(email string) bool {
	for _, acc := range s.committed {
		if acc.Email == email {
			return true
		}
	}
	return false
}

// EmailInPending reports whether email is reserved by some other in-flight
// transaction.
func (s *Store) EmailInPending(email string) bool {
	s.latch.Lock()
	defer s.latch.Unlock()
	return s.emailInPendingLocked(email)
}

func (s *Store) emailInPendingLocked(email string) bool {
	for _, r := range s.pending {
		if r.Email == email {
			return true
		}
	}
	return false
}

// Prepare runs the idempotency check, the two conflict scans, and the
// reservation insert as a single critical section, so they are atomic with
// respect to any concurrent Prepare. Returns the vote, the reason, and, only
// on a COMMIT vote, the allocated account id.
func (s *Store) Prepare(transactionID, name, email string, balance float64, now time.Time) (voteCommit bool, reason string, accountID string) {
	s.latch.Lock()
	defer s.latch.Unlock()

	if r, ok := s.lockedReservation(transactionID); ok {
		// Already prepared: do not reinspect inputs.
		return true, "already prepared", r.AccountID
	}
	if s.emailInCommittedLocked(email) {
		return false, "email exists (committed)", ""
	}
	if s.emailInPendingLocked(email) {
		return false, "email pending in another transaction", ""
	}

	accountID = strconv.FormatUint(s.nextAccountID, 10)
	s.nextAccountID++
	s.pending[transactionID] = Reservation{
		TransactionID: transactionID,
		AccountID:     accountID,
		Name:          name,
		Email:         email,
		Balance:       balance,
		CreatedAt:     now,
	}
	return true, "prepared", accountID
}

// AllocateAndReserve allocates the next account id and inserts a
// Reservation under transactionID, returning the allocated id. It makes no
// idempotency or email-conflict check of its own; Store.Prepare, which
// Handler.Prepare calls, makes those checks and the insert under one lock.
//
// Account ids are minted here, per node: each participant keeps its own
// sequence, so the same logical account can end up with different ids on
// different nodes. See DESIGN.md for the tradeoffs this implies.
func (s *Store) AllocateAndReserve(transactionID, name, email string, balance float64, now time.Time) string {
	s.latch.Lock()
	defer s.latch.Unlock()
	accountID := strconv.FormatUint(s.nextAccountID, 10)
	s.nextAccountID++
	s.pending[transactionID] = Reservation{
		TransactionID: transactionID,
		AccountID:     accountID,
		Name:          name,
		Email:         email,
		Balance:       balance,
		CreatedAt:     now,
	}
	return accountID
}

// Promote moves transactionID's reservation into committed, returning the
// allocated account id, or ("", false) if no reservation existed. Idempotent,
// never fails.
func (s *Store) Promote(transactionID string) (string, bool) {
	s.latch.Lock()
	defer s.latch.Unlock()
	r, ok := s.pending[transactionID]
	if !ok {
		return "", false
	}
	delete(s.pending, transactionID)
	s.committed[r.AccountID] = Account{
		AccountID: r.AccountID,
		Name:      r.Name,
		Email:     r.Email,
		Balance:   r.Balance,
		CreatedAt: r.CreatedAt,
	}
	return r.AccountID, true
}

// Discard removes transactionID's reservation if present, reporting whether
// one existed. Idempotent, never fails. The account id is never recycled.
func (s *Store) Discard(transactionID string) bool {
	s.latch.Lock()
	defer s.latch.Unlock()
	_, ok := s.pending[transactionID]
	delete(s.pending, transactionID)
	return ok
}

// lockedReservation returns a copy of transactionID's pending reservation,
// used by Store.Prepare (with the lock held) to answer a duplicate Prepare
// idempotently without reinspecting inputs.
func (s *Store) lockedReservation(transactionID string) (Reservation, bool) {
	r, ok := s.pending[transactionID]
	return r, ok
}

// Committed returns a snapshot of committed accounts, for tests and
// observability only.
func (s *Store) Committed() map[string]Account {
	s.latch.Lock()
	defer s.latch.Unlock()
	out := make(map[string]Account, len(s.committed))
	for k, v := range s.committed {
		out[k] = v
	}
	return out
}

// Pending returns a snapshot of pending reservations, for tests and
// observability only.
func (s *Store) Pending() map[string]Reservation {
	s.latch.Lock()
	defer s.latch.Unlock()
	out := make(map[string]Reservation, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}
