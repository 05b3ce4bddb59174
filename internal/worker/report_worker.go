package worker

// report_worker.go
// Processes closing-report jobs from QueueClosingReport: renders the session
// Z-report PDF and mails it to the configured back-office address.

import (
	"context"
	"encoding/json"

	"tillbook/internal/infra"
	"tillbook/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportWorker turns a closed session into a mailed Z-report.
type ReportWorker struct {
	sessions    repository.SessionRepository
	registers   repository.RegisterRepository
	mailer      *infra.Mailer
	storagePath string
	reportEmail string
}

func NewReportWorker(sessions repository.SessionRepository, registers repository.RegisterRepository, mailer *infra.Mailer, storagePath, reportEmail string) *ReportWorker {
	return &ReportWorker{
		sessions:    sessions,
		registers:   registers,
		mailer:      mailer,
		storagePath: storagePath,
		reportEmail: reportEmail,
	}
}

// Process renders and sends one closing report. Failures are logged, not
// retried — the session itself closed successfully regardless.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ClosingReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	session, err := w.sessions.FindByID(ctx, payload.SessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID.String()).Msg("report_worker: session not found")
		return
	}
	if session.Status != "closed" {
		log.Warn().Str("session_id", session.ID.String()).Msg("report_worker: session not closed — skipping")
		return
	}

	registerName := ""
	if register, err := w.registers.FindByID(ctx, session.RegisterID); err == nil {
		registerName = register.Name
	}

	sales, err := w.sessions.SumPayments(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Msg("report_worker: sum payments failed")
		return
	}

	pdfPath, err := infra.GenerateClosingReportPDF(session, registerName, sales, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("session_id", session.ID.String()).Msg("report_worker: pdf generation failed")
		return
	}

	if w.reportEmail == "" {
		log.Info().Str("pdf", pdfPath).Msg("report_worker: no report email configured — pdf stored only")
		return
	}

	subject := "Closing report — " + registerName
	body := "Session " + session.ID.String() + " closed. Z-report attached."
	if err := w.mailer.SendReport(w.reportEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", w.reportEmail).Msg("report_worker: failed to send email")
		return
	}
	log.Info().Str("to", w.reportEmail).Str("session_id", session.ID.String()).Msg("report_worker: closing report sent")
}
