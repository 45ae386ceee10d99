package worker

// receipt_worker.go
// Generates the PDF ticket for a completed sale and, when the customer left
// an email address, sends it as an attachment via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/siddronomomos/farmacia/internal/infra"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"
	"github.com/siddronomomos/farmacia/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const JobTypeReceipt = "receipt"

// ReceiptJobPayload is the job envelope for receipt generation.
type ReceiptJobPayload struct {
	Folio   int    `json:"folio"`
	ToEmail string `json:"to_email"`
}

// ReceiptDispatcher enqueues a receipt job after each committed sale. It is
// the async boundary: checkout never waits on PDF or SMTP.
type ReceiptDispatcher struct {
	dispatcher *Dispatcher
}

func NewReceiptDispatcher(dispatcher *Dispatcher) *ReceiptDispatcher {
	return &ReceiptDispatcher{dispatcher: dispatcher}
}

// SaleCompleted implements service.ReceiptNotifier. Enqueue failures are
// logged and swallowed: the sale is already committed.
func (d *ReceiptDispatcher) SaleCompleted(ctx context.Context, sale *model.Sale, _ []service.CartLine, _ decimal.Decimal, customerEmail string) {
	payload := ReceiptJobPayload{Folio: sale.Folio, ToEmail: customerEmail}
	if err := d.dispatcher.Enqueue(ctx, JobTypeReceipt, payload); err != nil {
		log.Error().Err(err).Int("folio", sale.Folio).Msg("failed to enqueue receipt job")
	}
}

// ReceiptWorker processes receipt jobs: reload the sale with its items,
// render the PDF, optionally email it.
type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{saleRepo: saleRepo, mailer: mailer, storagePath: storagePath}
}

func (w *ReceiptWorker) Type() string { return JobTypeReceipt }

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads never succeed, do not retry
	}

	sale, err := w.saleRepo.FindByFolio(ctx, payload.Folio)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale %d: %w", payload.Folio, err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt_worker: render folio %d: %w", payload.Folio, err)
	}
	log.Info().Int("folio", payload.Folio).Str("path", pdfPath).Msg("receipt_worker: pdf generated")

	if payload.ToEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Your receipt — folio %d", payload.Folio)
	body := fmt.Sprintf("Thank you for your purchase. Receipt for folio %d is attached.", payload.Folio)
	if err := w.mailer.SendReceipt(payload.ToEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("receipt_worker: send folio %d: %w", payload.Folio, err)
	}
	log.Info().Str("to", payload.ToEmail).Int("folio", payload.Folio).Msg("receipt_worker: receipt sent")
	return nil
}
