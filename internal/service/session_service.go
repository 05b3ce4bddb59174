package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tillbook/internal/dto"
	"tillbook/internal/ledger"
	"tillbook/internal/model"
	"tillbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReportDispatcher enqueues the async closing-report job after a successful
// close. Nil-safe: tests and minimal deployments run without one.
type ReportDispatcher interface {
	EnqueueClosingReport(ctx context.Context, sessionID uuid.UUID) error
}

type SessionService interface {
	Open(ctx context.Context, registerID, userID uuid.UUID, isManager bool, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	RecordPayment(ctx context.Context, sessionID uuid.UUID, req dto.RecordPaymentRequest) error
	Get(ctx context.Context, sessionID uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	registers  repository.RegisterRepository
	sessions   repository.SessionRepository
	dispatcher ReportDispatcher
}

func NewSessionService(registers repository.RegisterRepository, sessions repository.SessionRepository, dispatcher ReportDispatcher) SessionService {
	return &sessionService{registers: registers, sessions: sessions, dispatcher: dispatcher}
}

// ── Open ──────────────────────────────────────────────────────────────────────
// Guards, in order: register exists and is active, no open session on the
// register, override gate when the acting user is not the assigned cashier.

func (s *sessionService) Open(ctx context.Context, registerID, userID uuid.UUID, isManager bool, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	register, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		return nil, errors.New("register not found")
	}
	if !register.Active {
		return nil, ledger.ErrRegisterInactive
	}

	existing, err := s.sessions.FindOpenByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ledger.ErrSessionAlreadyOpen
	}

	session := &model.CashRegisterSession{
		RegisterID:         registerID,
		UserID:             userID,
		OpeningBalance:     req.OpeningBalance,
		OpeningCashBalance: req.OpeningBalance,
		Status:             "open",
		OpenedAt:           time.Now(),
	}

	if ledger.NeedsOverride(register.AssignedUserID, userID, isManager) {
		if err := ledger.ValidateOverride(req.OverrideCode); err != nil {
			return nil, err
		}
		if req.OverrideCode != register.SecretCode {
			return nil, ledger.ErrOverrideRejected
		}
		session.OverrideReason = req.OverrideReason
		overriddenBy := userID
		session.OverriddenBy = &overriddenBy
	} else if register.AssignedUserID != nil && *register.AssignedUserID != userID {
		// Non-managers cannot open someone else's register at all.
		return nil, ledger.ErrNotAssigned
	}

	onlineTotal := decimal.Zero
	for _, oa := range req.OpeningOnline {
		onlineTotal = onlineTotal.Add(oa.Amount)
	}

	if req.OpeningCashBalance != nil {
		// Declared split must reconcile with the total within the rounding
		// tolerance, same rule the closing evaluation uses.
		if req.OpeningCashBalance.Add(onlineTotal).Sub(req.OpeningBalance).Abs().GreaterThan(ledger.Epsilon) {
			return nil, fmt.Errorf("%w: cash plus online does not match opening balance", ledger.ErrInvalidAmount)
		}
		session.OpeningCashBalance = *req.OpeningCashBalance
	} else {
		session.OpeningCashBalance = req.OpeningBalance.Sub(onlineTotal)
	}

	if req.OpeningCounts != nil {
		if _, err := req.OpeningCounts.Total(); err != nil {
			return nil, err
		}
		session.OpeningCounts = *req.OpeningCounts
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessions.CreateTenders(ctx, tenderRows(session.ID, "opening", req.OpeningOnline)); err != nil {
		return nil, err
	}

	return sessionResponse(session), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// expected = opening + SUM(payments); variance and case come from
// ledger.Evaluate. A closed session is immutable — there is no reopen.

func (s *sessionService) Close(ctx context.Context, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("session not found")
	}
	if session.Status != "open" {
		return nil, ledger.ErrSessionNotOpen
	}

	sums, err := s.sessions.SumPayments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sales := decimal.Zero
	for _, amount := range sums {
		sales = sales.Add(amount)
	}

	eval, err := ledger.Evaluate(session.OpeningBalance, sales, req.CountedClosingBalance)
	if err != nil {
		return nil, err
	}

	if req.ClosingCounts != nil {
		if _, err := req.ClosingCounts.Total(); err != nil {
			return nil, err
		}
		session.ClosingCounts = *req.ClosingCounts
	}

	now := time.Now()
	counted := req.CountedClosingBalance
	caseLabel := string(eval.Case)
	session.ExpectedClosing = &eval.Expected
	session.CountedClosing = &counted
	session.Variance = &eval.Variance
	session.Case = &caseLabel
	session.Status = "closed"
	session.ClosedAt = &now
	session.Notes = req.Notes

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessions.CreateTenders(ctx, tenderRows(session.ID, "closing", req.ClosingOnline)); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueClosingReport(ctx, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).Msg("closing report enqueue failed")
		}
	}

	return sessionResponse(session), nil
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
// Payments are immutable — no Update/Delete exists on the repository.

func (s *sessionService) RecordPayment(ctx context.Context, sessionID uuid.UUID, req dto.RecordPaymentRequest) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return errors.New("session not found")
	}
	if session.Status != "open" {
		return ledger.ErrSessionNotOpen
	}

	payment := &model.SessionPayment{
		SessionID: sessionID,
		Method:    req.Method,
		Amount:    req.Amount,
		Cost:      req.Cost,
	}
	if req.Reference != nil {
		ref, err := uuid.Parse(*req.Reference)
		if err != nil {
			return fmt.Errorf("invalid reference: %w", err)
		}
		payment.Reference = &ref
	}
	return s.sessions.CreatePayment(ctx, payment)
}

func (s *sessionService) Get(ctx context.Context, sessionID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("session not found")
	}
	return sessionResponse(session), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func tenderRows(sessionID uuid.UUID, phase string, amounts []dto.OnlineAmount) []model.SessionTender {
	rows := make([]model.SessionTender, 0, len(amounts))
	for _, oa := range amounts {
		rows = append(rows, model.SessionTender{
			SessionID: sessionID,
			Phase:     phase,
			Method:    oa.Method,
			Amount:    oa.Amount,
		})
	}
	return rows
}

func sessionResponse(s *model.CashRegisterSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:              s.ID.String(),
		RegisterID:      s.RegisterID.String(),
		UserID:          s.UserID.String(),
		OpeningBalance:  s.OpeningBalance,
		ExpectedClosing: s.ExpectedClosing,
		CountedClosing:  s.CountedClosing,
		Variance:        s.Variance,
		Case:            s.Case,
		Status:          s.Status,
		Notes:           s.Notes,
		OverrideReason:  s.OverrideReason,
		OpenedAt:        s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
