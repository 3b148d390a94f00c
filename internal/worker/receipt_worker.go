package worker

// receipt_worker.go — generates the PDF receipt for a completed sale and
// mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"tillpoint/internal/infra"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/rs/zerolog/log"
)

type ReceiptWorker struct {
	sales    repository.SaleRepository
	settings repository.SettingsRepository
	mailer   *infra.Mailer
	pdfDir   string
}

func NewReceiptWorker(sales repository.SaleRepository, settings repository.SettingsRepository, mailer *infra.Mailer, pdfDir string) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, settings: settings, mailer: mailer, pdfDir: pdfDir}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Int64("sale_id", payload.SaleID).Msg("receipt_worker: empty to_email — skipping")
		return
	}
	if !w.mailer.Configured() {
		log.Warn().Int64("sale_id", payload.SaleID).Msg("receipt_worker: SMTP not configured — skipping")
		return
	}

	sale, err := w.sales.FindByID(ctx, payload.SaleID)
	if err != nil {
		log.Error().Int64("sale_id", payload.SaleID).Err(err).Msg("receipt_worker: sale lookup failed")
		return
	}

	storeName := w.settings.Settings(ctx).StoreName
	pdfPath, err := infra.GenerateReceiptPDF(sale, storeName, w.pdfDir)
	if err != nil {
		log.Error().Int64("sale_id", sale.ID).Err(err).Msg("receipt_worker: pdf generation failed")
		return
	}

	subject := fmt.Sprintf("%s — receipt for sale #%d", storeName, sale.ID)
	body := receiptBody(storeName, sale)
	if err := w.mailer.SendReceipt(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Int64("sale_id", sale.ID).Str("to", payload.ToEmail).Err(err).
			Msg("receipt_worker: send failed")
		return
	}
	log.Info().Int64("sale_id", sale.ID).Str("to", payload.ToEmail).Msg("receipt emailed")
}

func receiptBody(storeName string, sale *model.Sale) string {
	return fmt.Sprintf(
		"Thank you for shopping at %s.\n\nSale #%d on %s\nTotal: $%s\n\nYour receipt is attached.",
		storeName, sale.ID, sale.CreatedAt.Format("02 Jan 2006 15:04"), sale.Total.StringFixed(2),
	)
}
