package service

import (
	"context"
	"errors"

	"tillbook/internal/cache"
	"tillbook/internal/dto"
	"tillbook/internal/model"
	"tillbook/internal/repository"

	"github.com/google/uuid"
)

// RegistersEntity keys the cached register listings; the branch-change
// subscriber in cmd/server invalidates under the same name.
const RegistersEntity = "registers"

type RegisterService interface {
	Create(ctx context.Context, branchID int, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error)
	List(ctx context.Context, branchID int) ([]dto.RegisterResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRegisterRequest) (*dto.RegisterResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
}

type registerService struct {
	repo     repository.RegisterRepository
	sessions repository.SessionRepository
	store    cache.Store
	bus      cache.Bus
}

func NewRegisterService(repo repository.RegisterRepository, sessions repository.SessionRepository, store cache.Store, bus cache.Bus) RegisterService {
	return &registerService{repo: repo, sessions: sessions, store: store, bus: bus}
}

func (s *registerService) Create(ctx context.Context, branchID int, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	register := &model.CashRegister{
		BranchID:   branchID,
		Name:       req.Name,
		SecretCode: req.SecretCode,
		Active:     true,
	}
	if req.AssignedUserID != nil {
		uid, err := uuid.Parse(*req.AssignedUserID)
		if err != nil {
			return nil, errors.New("invalid assigned_user_id")
		}
		register.AssignedUserID = &uid
	}
	if err := s.repo.Create(ctx, register); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, branchID)
	return s.response(ctx, register), nil
}

// List serves the branch's registers from the short-lived cache when fresh.
func (s *registerService) List(ctx context.Context, branchID int) ([]dto.RegisterResponse, error) {
	var cached []dto.RegisterResponse
	if s.store.Get(ctx, RegistersEntity, branchID, &cached) {
		return cached, nil
	}

	registers, err := s.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RegisterResponse, 0, len(registers))
	for i := range registers {
		resp = append(resp, *s.response(ctx, &registers[i]))
	}

	s.store.Set(ctx, RegistersEntity, branchID, resp)
	return resp, nil
}

func (s *registerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRegisterRequest) (*dto.RegisterResponse, error) {
	register, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("register not found")
	}
	if req.Name != "" {
		register.Name = req.Name
	}
	if req.SecretCode != "" {
		register.SecretCode = req.SecretCode
	}
	if req.AssignedUserID != nil {
		uid, err := uuid.Parse(*req.AssignedUserID)
		if err != nil {
			return nil, errors.New("invalid assigned_user_id")
		}
		register.AssignedUserID = &uid
	}
	if err := s.repo.Update(ctx, register); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, register.BranchID)
	return s.response(ctx, register), nil
}

func (s *registerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *registerService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *registerService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	register, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("register not found")
	}
	register.Active = active
	if err := s.repo.Update(ctx, register); err != nil {
		return err
	}
	s.afterWrite(ctx, register.BranchID)
	return nil
}

// afterWrite drops the branch's cached listing and broadcasts the change so
// other clients refetch.
func (s *registerService) afterWrite(ctx context.Context, branchID int) {
	s.store.Invalidate(ctx, RegistersEntity, branchID)
	s.bus.PublishBranchChanged(ctx, branchID)
}

func (s *registerService) response(ctx context.Context, register *model.CashRegister) *dto.RegisterResponse {
	resp := &dto.RegisterResponse{
		ID:       register.ID.String(),
		BranchID: register.BranchID,
		Name:     register.Name,
		Active:   register.Active,
	}
	if register.AssignedUserID != nil {
		id := register.AssignedUserID.String()
		resp.AssignedUserID = &id
	}
	if open, err := s.sessions.FindOpenByRegister(ctx, register.ID); err == nil && open != nil {
		id := open.ID.String()
		resp.OpenSessionID = &id
	}
	return resp
}
