package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/quotedesk/quotedesk/report"
)

// PDFArchiveJob renders quotations to PDF in the background so the
// accept flow never waits on Gotenberg.
type PDFArchiveJob struct {
	source   report.QuotationSource
	renderer *report.Client
	logger   *slog.Logger
	dir      string
}

// NewPDFArchiveJob initialises the archive handler. dir is the
// directory archived PDFs are written to.
func NewPDFArchiveJob(source report.QuotationSource, renderer *report.Client, logger *slog.Logger, dir string) *PDFArchiveJob {
	return &PDFArchiveJob{source: source, renderer: renderer, logger: logger, dir: dir}
}

// Handle executes the render and write.
func (j *PDFArchiveJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PDFArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.QuotationID == "" {
		return asynq.SkipRetry
	}

	logger := j.logger.With(slog.String("quotation_id", payload.QuotationID))

	q, err := j.source.Get(ctx, payload.QuotationID)
	if err != nil {
		logger.Error("load quotation for archive", slog.Any("error", err))
		return err
	}

	pdf, err := j.renderer.RenderHTML(ctx, report.BuildQuotationHTML(q))
	if err != nil {
		logger.Error("render archive pdf", slog.Any("error", err))
		return err
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	path := filepath.Join(j.dir, q.QuoteNo+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write archive pdf: %w", err)
	}

	logger.Info("quotation archived", slog.String("path", path), slog.Int("bytes", len(pdf)))
	return nil
}
