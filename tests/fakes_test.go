package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tillbook/internal/cache"
	"tillbook/internal/model"
	"tillbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── In-memory RegisterRepository ─────────────────────────────────────────────

type fakeRegisterRepo struct {
	registers map[uuid.UUID]*model.CashRegister
	order     []uuid.UUID
	listCalls int
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{registers: make(map[uuid.UUID]*model.CashRegister)}
}

func (r *fakeRegisterRepo) Create(_ context.Context, reg *model.CashRegister) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	reg.CreatedAt = time.Now()
	r.registers[reg.ID] = reg
	r.order = append(r.order, reg.ID)
	return nil
}

func (r *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	reg, ok := r.registers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return reg, nil
}

func (r *fakeRegisterRepo) ListByBranch(_ context.Context, branchID int) ([]model.CashRegister, error) {
	r.listCalls++
	var result []model.CashRegister
	for _, id := range r.order {
		if r.registers[id].BranchID == branchID {
			result = append(result, *r.registers[id])
		}
	}
	return result, nil
}

func (r *fakeRegisterRepo) Update(_ context.Context, reg *model.CashRegister) error {
	r.registers[reg.ID] = reg
	return nil
}

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

// ── In-memory SessionRepository ──────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.CashRegisterSession
	order    []uuid.UUID
	payments []model.SessionPayment
	tenders  []model.SessionTender
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashRegisterSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.CashRegisterSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	// Attach related rows, mirroring the Preload the real repo does.
	s.Payments = nil
	for _, p := range r.payments {
		if p.SessionID == id {
			s.Payments = append(s.Payments, p)
		}
	}
	s.Tenders = nil
	for _, t := range r.tenders {
		if t.SessionID == id {
			s.Tenders = append(s.Tenders, t)
		}
	}
	return s, nil
}

func (r *fakeSessionRepo) FindOpenByRegister(_ context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	for _, id := range r.order {
		s := r.sessions[id]
		if s.RegisterID == registerID && s.Status == "open" {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.CashRegisterSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) ListByRegister(_ context.Context, registerID uuid.UUID) ([]model.CashRegisterSession, error) {
	var result []model.CashRegisterSession
	for _, id := range r.order {
		if r.sessions[id].RegisterID == registerID {
			result = append(result, *r.sessions[id])
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) CreatePayment(_ context.Context, p *model.SessionPayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakeSessionRepo) CreateTenders(_ context.Context, tenders []model.SessionTender) error {
	for i := range tenders {
		if tenders[i].ID == uuid.Nil {
			tenders[i].ID = uuid.New()
		}
		r.tenders = append(r.tenders, tenders[i])
	}
	return nil
}

func (r *fakeSessionRepo) SumPayments(_ context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, p := range r.payments {
		if p.SessionID == sessionID {
			sums[p.Method] = sums[p.Method].Add(p.Amount)
		}
	}
	return sums, nil
}

func (r *fakeSessionRepo) SumCosts(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.SessionID == sessionID {
			total = total.Add(p.Cost)
		}
	}
	return total, nil
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── In-memory UserRepository ─────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if includeInactive || u.Active {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// ── In-memory cache.Store and recording cache.Bus ────────────────────────────

type memStore struct {
	data        map[string][]byte
	sets, drops int
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func storeKey(entity string, branchID int) string {
	return fmt.Sprintf("%s:%d", entity, branchID)
}

func (s *memStore) Get(_ context.Context, entity string, branchID int, dest any) bool {
	raw, ok := s.data[storeKey(entity, branchID)]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *memStore) Set(_ context.Context, entity string, branchID int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.data[storeKey(entity, branchID)] = raw
	s.sets++
}

func (s *memStore) Invalidate(_ context.Context, entity string, branchID int) {
	delete(s.data, storeKey(entity, branchID))
	s.drops++
}

var _ cache.Store = (*memStore)(nil)

type recordingBus struct {
	published []int
}

func (b *recordingBus) PublishBranchChanged(_ context.Context, branchID int) {
	b.published = append(b.published, branchID)
}

var _ cache.Bus = (*recordingBus)(nil)

// ── Recording ReportDispatcher ───────────────────────────────────────────────

type recordingDispatcher struct {
	enqueued []uuid.UUID
}

func (d *recordingDispatcher) EnqueueClosingReport(_ context.Context, sessionID uuid.UUID) error {
	d.enqueued = append(d.enqueued, sessionID)
	return nil
}
