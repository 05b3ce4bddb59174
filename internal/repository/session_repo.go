package repository

import (
	"context"
	"errors"

	"tillbook/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.CashRegisterSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error)
	// FindOpenByRegister returns (nil, nil) when the register has no open session.
	FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error)
	Update(ctx context.Context, s *model.CashRegisterSession) error
	// ListByRegister returns all sessions ordered by opened_at ascending.
	ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.CashRegisterSession, error)

	CreatePayment(ctx context.Context, p *model.SessionPayment) error
	CreateTenders(ctx context.Context, tenders []model.SessionTender) error
	// SumPayments aggregates recorded payment amounts per method.
	SumPayments(ctx context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error)
	// SumCosts returns the total cost-of-goods recorded against the session.
	SumCosts(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).Preload("Payments").Preload("Tenders").First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Where("register_id = ? AND status = 'open'", registerID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Update(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.CashRegisterSession, error) {
	var sessions []model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Order("opened_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) CreatePayment(ctx context.Context, p *model.SessionPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *sessionRepo) CreateTenders(ctx context.Context, tenders []model.SessionTender) error {
	if len(tenders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tenders).Error
}

func (r *sessionRepo) SumPayments(ctx context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Method string
		Total  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.SessionPayment{}).
		Select("method, COALESCE(SUM(amount), 0) AS total").
		Where("session_id = ?", sessionID).
		Group("method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Method] = row.Total
	}
	return sums, nil
}

func (r *sessionRepo) SumCosts(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Model(&model.SessionPayment{}).
		Select("COALESCE(SUM(cost), 0) AS total").
		Where("session_id = ?", sessionID).
		Scan(&row).Error
	return row.Total, err
}
