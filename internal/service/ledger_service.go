package service

import (
	"context"
	"errors"
	"time"

	"tillbook/internal/dto"
	"tillbook/internal/ledger"
	"tillbook/internal/model"
	"tillbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	// Entries returns the flat chronological feed for a register.
	Entries(ctx context.Context, registerID uuid.UUID) ([]dto.LedgerEntryResponse, error)
	// Grouped folds the feed into per-session groups and paginates over them.
	Grouped(ctx context.Context, registerID uuid.UUID, page, size int) (*dto.GroupedLedgerResponse, error)
	Breakdown(ctx context.Context, sessionID uuid.UUID) (*dto.BreakdownResponse, error)
}

type ledgerService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
}

func NewLedgerService(sessions repository.SessionRepository, users repository.UserRepository) LedgerService {
	return &ledgerService{sessions: sessions, users: users}
}

func (s *ledgerService) Entries(ctx context.Context, registerID uuid.UUID) ([]dto.LedgerEntryResponse, error) {
	entries, err := s.feed(ctx, registerID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse(e))
	}
	return resp, nil
}

func (s *ledgerService) Grouped(ctx context.Context, registerID uuid.UUID, page, size int) (*dto.GroupedLedgerResponse, error) {
	entries, err := s.feed(ctx, registerID)
	if err != nil {
		return nil, err
	}
	groups := ledger.Group(entries)
	pageGroups := ledger.Paginate(groups, page, size)

	resp := &dto.GroupedLedgerResponse{
		Groups: make([]dto.SessionGroupResponse, 0, len(pageGroups)),
		Total:  len(groups),
		Page:   page,
		Size:   size,
	}
	for _, g := range pageGroups {
		gr := dto.SessionGroupResponse{Opening: entryResponse(g.Opening)}
		if g.SessionID != nil {
			id := g.SessionID.String()
			gr.SessionID = &id
		}
		if g.Closing != nil {
			closing := entryResponse(*g.Closing)
			gr.Closing = &closing
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp, nil
}

func (s *ledgerService) Breakdown(ctx context.Context, sessionID uuid.UUID) (*dto.BreakdownResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("session not found")
	}

	openingCount, err := session.OpeningCounts.Total()
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	for _, p := range session.Payments {
		gross = gross.Add(p.Amount)
	}
	cogs, err := s.sessions.SumCosts(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BreakdownResponse{
		SessionID:         session.ID.String(),
		OpeningCountTotal: openingCount,
		Opening: dto.TenderSplit{
			Cash:   session.OpeningCashBalance,
			Online: tenderSum(session.Tenders, "opening"),
			Total:  session.OpeningBalance,
		},
		GrossSales:  gross,
		CostOfGoods: cogs,
		NetProfit:   gross.Sub(cogs),
	}

	if session.Status == "closed" && session.CountedClosing != nil {
		closingCount, err := session.ClosingCounts.Total()
		if err != nil {
			return nil, err
		}
		resp.ClosingCountTotal = &closingCount

		online := tenderSum(session.Tenders, "closing")
		resp.Closing = &dto.TenderSplit{
			Cash:   session.CountedClosing.Sub(online),
			Online: online,
			Total:  *session.CountedClosing,
		}
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// feed projects a register's session history into the flat event list the
// aggregator consumes: one opening per session plus one closing per closed
// session, ordered by occurrence.
func (s *ledgerService) feed(ctx context.Context, registerID uuid.UUID) ([]ledger.Entry, error) {
	sessions, err := s.sessions.ListByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string)
	userName := func(id uuid.UUID) string {
		if name, ok := names[id]; ok {
			return name
		}
		name := ""
		if u, err := s.users.FindByID(ctx, id); err == nil {
			name = u.Name
		}
		names[id] = name
		return name
	}

	entries := make([]ledger.Entry, 0, len(sessions)*2)
	for i := range sessions {
		sess := sessions[i]
		id := sess.ID
		entries = append(entries, ledger.Entry{
			Kind:       ledger.EntryOpening,
			SessionID:  &id,
			UserID:     sess.UserID,
			UserName:   userName(sess.UserID),
			Amount:     sess.OpeningBalance,
			OccurredAt: sess.OpenedAt,
		})
		if sess.Status == "closed" && sess.ClosedAt != nil {
			closing := ledger.Entry{
				Kind:       ledger.EntryClosing,
				SessionID:  &id,
				UserID:     sess.UserID,
				UserName:   userName(sess.UserID),
				OccurredAt: *sess.ClosedAt,
			}
			if sess.CountedClosing != nil {
				closing.Amount = *sess.CountedClosing
				closing.Counted = sess.CountedClosing
			}
			closing.Expected = sess.ExpectedClosing
			closing.Variance = sess.Variance
			if sess.Case != nil {
				c := ledger.Case(*sess.Case)
				closing.Case = &c
			}
			entries = append(entries, closing)
		}
	}

	// Sessions arrive ordered by opened_at; closings interleave by their own
	// timestamps. Sessions never overlap on one register, so a stable
	// insertion sort by occurrence keeps the feed chronological.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].OccurredAt.Before(entries[j-1].OccurredAt); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	return entries, nil
}

func tenderSum(tenders []model.SessionTender, phase string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tenders {
		if t.Phase == phase {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

func entryResponse(e ledger.Entry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		Kind:       string(e.Kind),
		User:       e.UserName,
		Amount:     e.Amount,
		Counted:    e.Counted,
		Expected:   e.Expected,
		Variance:   e.Variance,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
	}
	if e.SessionID != nil {
		id := e.SessionID.String()
		resp.SessionID = &id
	}
	if e.Case != nil {
		c := string(*e.Case)
		resp.Case = &c
	}
	return resp
}
