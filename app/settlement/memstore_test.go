package settlement

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for postgres that keeps the conditional
// update semantics of TransitionWager and rolls back failed transactions.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	events      map[uuid.UUID]models.Event
	wagers      map[uuid.UUID]models.Wager
	settlements []models.Settlement
	audits      []models.AuditLog
	balances    map[uuid.UUID]decimal.Decimal
	ledger      []models.Transaction
	credits     int
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[uuid.UUID]models.Event),
		wagers:   make(map[uuid.UUID]models.Wager),
		balances: make(map[uuid.UUID]decimal.Decimal),
	}
}

type memSnapshot struct {
	wagers      map[uuid.UUID]models.Wager
	settlements []models.Settlement
	balances    map[uuid.UUID]decimal.Decimal
	ledger      []models.Transaction
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		wagers:      make(map[uuid.UUID]models.Wager, len(s.wagers)),
		settlements: append([]models.Settlement(nil), s.settlements...),
		balances:    make(map[uuid.UUID]decimal.Decimal, len(s.balances)),
		ledger:      append([]models.Transaction(nil), s.ledger...),
	}
	for k, v := range s.wagers {
		snap.wagers[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wagers = snap.wagers
	s.settlements = snap.settlements
	s.balances = snap.balances
	s.ledger = snap.ledger
}

func (s *memStore) addEvent(e models.Event) models.Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return e
}

func (s *memStore) addWager(w models.Wager) models.Wager {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Kind == "" {
		w.Kind = models.WagerKindSingle
	}
	if w.Status == "" {
		w.Status = models.WagerStatusPending
	}
	if w.PotentialPayout.IsZero() {
		w.PotentialPayout = models.CalculatePotentialPayout(w.Stake, w.Odds)
	}
	for i := range w.Selections {
		w.Selections[i].WagerID = w.ID
		if w.Selections[i].ID == uuid.Nil {
			w.Selections[i].ID = uuid.New()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wagers[w.ID] = w
	return w
}

func (s *memStore) wager(id uuid.UUID) models.Wager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wagers[id]
}

func (s *memStore) balance(userID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[userID]
}

func (s *memStore) settlementsFor(wagerID uuid.UUID) []models.Settlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Settlement
	for _, st := range s.settlements {
		if st.WagerID == wagerID {
			out = append(out, st)
		}
	}
	return out
}

type memRepo struct {
	store *memStore
}

func (r *memRepo) WithTx(*gorm.DB) Repository { return r }

func (r *memRepo) GetEvent(_ context.Context, id uuid.UUID) (*models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *memRepo) GetEvents(_ context.Context, ids []uuid.UUID) ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Event
	for _, id := range ids {
		if e, ok := r.store.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) filter(keep func(w *models.Wager) bool) []models.Wager {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Wager
	for _, w := range r.store.wagers {
		if w.IsOpen() && keep(&w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out
}

func (r *memRepo) FindWagersByEvent(_ context.Context, eventID uuid.UUID) ([]models.Wager, error) {
	return r.filter(func(w *models.Wager) bool {
		return !w.IsParlay() && w.EventID != nil && *w.EventID == eventID
	}), nil
}

func (r *memRepo) FindLegacyWagers(_ context.Context, homeTeam, awayTeam string) ([]models.Wager, error) {
	names := fixtureNames(homeTeam, awayTeam)
	return r.filter(func(w *models.Wager) bool {
		if w.IsParlay() || w.EventID != nil {
			return false
		}
		desc := strings.ToLower(w.Description)
		for _, name := range names {
			if strings.Contains(desc, strings.ToLower(name)) {
				return true
			}
		}
		return false
	}), nil
}

func (r *memRepo) FindOpenParlaysByEvent(_ context.Context, eventID uuid.UUID) ([]models.Wager, error) {
	return r.filter(func(w *models.Wager) bool {
		if !w.IsParlay() {
			return false
		}
		for _, sel := range w.Selections {
			if sel.EventID == eventID {
				return true
			}
		}
		return false
	}), nil
}

func (r *memRepo) FindOpenParlays(_ context.Context, afterID uuid.UUID, limit int) ([]models.Wager, error) {
	all := r.filter(func(w *models.Wager) bool {
		return w.IsParlay() && bytes.Compare(w.ID[:], afterID[:]) > 0
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memRepo) TransitionWager(_ context.Context, w *models.Wager) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.wagers[w.ID]
	if !ok || !stored.IsOpen() {
		return models.ErrConcurrentSettlement
	}
	stored.Status = w.Status
	stored.Result = w.Result
	stored.SettledPayout = w.SettledPayout
	stored.SettledAt = w.SettledAt
	r.store.wagers[w.ID] = stored
	return nil
}

func (r *memRepo) CreateSettlement(_ context.Context, st *models.Settlement) error {
	if err := st.Validate(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	st.ID = uuid.New()
	st.CreatedAt = time.Now()
	r.store.settlements = append(r.store.settlements, *st)
	return nil
}

func (r *memRepo) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, *entry)
	return nil
}

func (r *memRepo) ListSettlementsByEvent(_ context.Context, eventID uuid.UUID) ([]models.Settlement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Settlement
	for _, st := range r.store.settlements {
		if st.EventID != nil && *st.EventID == eventID {
			out = append(out, st)
		}
	}
	return out, nil
}

// memTransactor serializes transactions and restores the store when fn fails
type memTransactor struct {
	store *memStore
}

func (t *memTransactor) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// memWallets credits balances held in the store
type memWallets struct {
	store *memStore
}

func (m *memWallets) Credit(_ context.Context, _ *gorm.DB, req *wallet.CreditRequest) (*models.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	current, ok := m.store.balances[req.UserID]
	if !ok {
		return nil, models.ErrWalletNotFound
	}
	after := current.Add(req.Amount)
	m.store.balances[req.UserID] = after
	m.store.credits++

	entry := models.CreatePayoutTransaction(req.UserID, uuid.New(), req.Amount, after, req.WagerID)
	if req.Type == models.TransactionTypeWagerRefund {
		entry = models.CreateWagerRefundTransaction(req.UserID, uuid.New(), req.Amount, after, req.WagerID)
	}
	entry.ID = uuid.New()
	m.store.ledger = append(m.store.ledger, *entry)
	return entry, nil
}
