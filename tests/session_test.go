package tests

import (
	"context"
	"testing"

	"tillbook/internal/dto"
	"tillbook/internal/ledger"
	"tillbook/internal/model"
	"tillbook/internal/money"
	"tillbook/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRegister(t *testing.T, regs *fakeRegisterRepo, assigned *uuid.UUID) *model.CashRegister {
	t.Helper()
	register := &model.CashRegister{
		BranchID:       1,
		Name:           "Till 1",
		SecretCode:     "9999",
		AssignedUserID: assigned,
		Active:         true,
	}
	require.NoError(t, regs.Create(context.Background(), register))
	return register
}

func TestOpenSession(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)

	resp, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	assert.Equal(t, "1000", resp.OpeningBalance.String())
	assert.Nil(t, resp.ClosedAt)
}

func TestOpenSessionDuplicate(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)

	_, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ledger.ErrSessionAlreadyOpen)
}

func TestOpenSessionInactiveRegister(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)
	register.Active = false

	_, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(1000),
	})
	assert.ErrorIs(t, err, ledger.ErrRegisterInactive)
}

func TestOpenSessionOverride(t *testing.T) {
	owner := uuid.New()
	manager := uuid.New()
	reason := "owner out sick"

	t.Run("manager with correct code", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		sessions := newFakeSessionRepo()
		svc := service.NewSessionService(regs, sessions, nil)
		register := seedRegister(t, regs, &owner)

		resp, err := svc.Open(context.Background(), register.ID, manager, true, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
			OverrideCode:   "9999",
			OverrideReason: &reason,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.OverrideReason)
		assert.Equal(t, reason, *resp.OverrideReason)

		stored := sessions.sessions[uuid.MustParse(resp.ID)]
		require.NotNil(t, stored.OverriddenBy)
		assert.Equal(t, manager, *stored.OverriddenBy)
	})

	t.Run("manager without code", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
		register := seedRegister(t, regs, &owner)

		_, err := svc.Open(context.Background(), register.ID, manager, true, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, ledger.ErrOverrideRequired)
	})

	t.Run("manager with short code", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
		register := seedRegister(t, regs, &owner)

		_, err := svc.Open(context.Background(), register.ID, manager, true, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
			OverrideCode:   "99",
		})
		assert.ErrorIs(t, err, ledger.ErrOverrideTooShort)
	})

	t.Run("manager with wrong code", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
		register := seedRegister(t, regs, &owner)

		_, err := svc.Open(context.Background(), register.ID, manager, true, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
			OverrideCode:   "0000",
		})
		assert.ErrorIs(t, err, ledger.ErrOverrideRejected)
	})

	t.Run("non-manager cannot take over", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
		register := seedRegister(t, regs, &owner)

		_, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
			OverrideCode:   "9999",
		})
		assert.ErrorIs(t, err, ledger.ErrNotAssigned)
	})

	t.Run("assigned user needs no override", func(t *testing.T) {
		regs := newFakeRegisterRepo()
		svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
		register := seedRegister(t, regs, &owner)

		_, err := svc.Open(context.Background(), register.ID, owner, false, dto.OpenSessionRequest{
			OpeningBalance: decimal.NewFromInt(1000),
		})
		assert.NoError(t, err)
	})
}

func TestOpenSessionSplitMustReconcile(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)

	cash := decimal.NewFromInt(800)
	_, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance:     decimal.NewFromInt(1000),
		OpeningCashBalance: &cash,
		OpeningOnline: []dto.OnlineAmount{
			{Method: "card", Amount: decimal.NewFromInt(300)},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	// 800 cash + 200 card = 1000: accepted, and the tenders are recorded.
	resp, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance:     decimal.NewFromInt(1000),
		OpeningCashBalance: &cash,
		OpeningOnline: []dto.OnlineAmount{
			{Method: "card", Amount: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)
	require.Len(t, sessions.tenders, 1)
	assert.Equal(t, "opening", sessions.tenders[0].Phase)
	assert.Equal(t, "card", sessions.tenders[0].Method)
	assert.Equal(t, resp.ID, sessions.tenders[0].SessionID.String())
}

func TestOpenSessionRejectsNegativeCounts(t *testing.T) {
	regs := newFakeRegisterRepo()
	svc := service.NewSessionService(regs, newFakeSessionRepo(), nil)
	register := seedRegister(t, regs, nil)

	_, err := svc.Open(context.Background(), register.ID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(1000),
		OpeningCounts:  &money.Denomination{Bill500: -2},
	})
	assert.ErrorIs(t, err, money.ErrInvalidDenomination)
}

func openSession(t *testing.T, svc service.SessionService, registerID uuid.UUID, amount int64) uuid.UUID {
	t.Helper()
	resp, err := svc.Open(context.Background(), registerID, uuid.New(), false, dto.OpenSessionRequest{
		OpeningBalance: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCloseSessionSale(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	dispatcher := &recordingDispatcher{}
	svc := service.NewSessionService(regs, sessions, dispatcher)
	register := seedRegister(t, regs, nil)
	sessionID := openSession(t, svc, register.ID, 1000)

	require.NoError(t, svc.RecordPayment(context.Background(), sessionID, dto.RecordPaymentRequest{
		Method: "cash", Amount: decimal.NewFromInt(500),
	}))
	require.NoError(t, svc.RecordPayment(context.Background(), sessionID, dto.RecordPaymentRequest{
		Method: "card", Amount: decimal.NewFromInt(250),
	}))

	resp, err := svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromInt(1750),
	})

	require.NoError(t, err)
	assert.Equal(t, "closed", resp.Status)
	assert.Equal(t, "1750", resp.ExpectedClosing.String())
	assert.True(t, resp.Variance.IsZero())
	assert.Equal(t, "SALE", *resp.Case)
	assert.NotNil(t, resp.ClosedAt)
	assert.Equal(t, []uuid.UUID{sessionID}, dispatcher.enqueued)
}

func TestCloseSessionShorted(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)
	sessionID := openSession(t, svc, register.ID, 1000)

	require.NoError(t, svc.RecordPayment(context.Background(), sessionID, dto.RecordPaymentRequest{
		Method: "cash", Amount: decimal.NewFromInt(500),
	}))

	resp, err := svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromFloat(1400.50),
	})

	require.NoError(t, err)
	assert.Equal(t, "SHORTED", *resp.Case)
	assert.Equal(t, "-99.5", resp.Variance.String())
}

func TestCloseSessionNoSale(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)
	sessionID := openSession(t, svc, register.ID, 1000)

	resp, err := svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.Equal(t, "NO_SALE", *resp.Case)
	assert.True(t, resp.Variance.IsZero())
}

func TestCloseSessionTwice(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)
	sessionID := openSession(t, svc, register.ID, 1000)

	_, err := svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromInt(2000),
	})
	assert.ErrorIs(t, err, ledger.ErrSessionNotOpen)
}

func TestRecordPaymentOnClosedSession(t *testing.T) {
	regs := newFakeRegisterRepo()
	sessions := newFakeSessionRepo()
	svc := service.NewSessionService(regs, sessions, nil)
	register := seedRegister(t, regs, nil)
	sessionID := openSession(t, svc, register.ID, 1000)

	_, err := svc.Close(context.Background(), sessionID, dto.CloseSessionRequest{
		CountedClosingBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	err = svc.RecordPayment(context.Background(), sessionID, dto.RecordPaymentRequest{
		Method: "cash", Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ledger.ErrSessionNotOpen)
	assert.Empty(t, sessions.payments)
}
