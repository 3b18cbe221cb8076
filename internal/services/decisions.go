package services

import (
	"context"
	"time"

	"fineops/internal/config"
	"fineops/internal/events"
	"fineops/internal/models"
	"fineops/internal/pdf"
	"fineops/internal/utils/logger"
)

// SpreadsheetAppender appends one report row to the external
// spreadsheet.
type SpreadsheetAppender interface {
	AppendRow(ctx context.Context, values []interface{}) error
}

// DocumentSender delivers a generated manifest to the chat channel.
type DocumentSender interface {
	SendDocument(path, caption string) error
}

// ManifestGenerator renders a manifest PDF and returns its path.
type ManifestGenerator interface {
	Generate(items []models.OrderLineRecord, v pdf.Variant, date time.Time) (string, error)
}

// Archiver optionally copies a manifest into long-term storage.
type Archiver interface {
	Upload(ctx context.Context, path string) error
}

// DecisionService records a batch of worker decisions: it partitions
// them, bumps the worker's counter, appends the spreadsheet summary,
// renders both manifests and notifies the chat. Every step after
// partitioning is best-effort; the batch is reported as saved even
// under partial downstream failure.
type DecisionService struct {
	store     *config.Store
	sheets    SpreadsheetAppender
	notifier  DocumentSender
	manifests ManifestGenerator
	archive   Archiver
	log       *logger.Logger
	now       func() time.Time
}

func NewDecisionService(store *config.Store, sheets SpreadsheetAppender, notifier DocumentSender, manifests ManifestGenerator, archive Archiver) *DecisionService {
	return &DecisionService{
		store:     store,
		sheets:    sheets,
		notifier:  notifier,
		manifests: manifests,
		archive:   archive,
		log:       logger.New("decisions"),
		now:       time.Now,
	}
}

// Partition splits decisions into accepted, rejected and skipped order
// lines by the literal decision value. The function is total: anything
// that is not "yes" or "no" lands in skipped. Unknown values are
// already rejected at the API boundary.
func Partition(decisions []models.Decision) (accepted, rejected, skipped []models.OrderLineRecord) {
	for _, d := range decisions {
		rec := models.OrderLineRecord{OrderID: d.OrderID}
		switch d.Decision {
		case models.DecisionAccept:
			accepted = append(accepted, rec)
		case models.DecisionReject:
			rejected = append(rejected, rec)
		default:
			skipped = append(skipped, rec)
		}
	}
	return accepted, rejected, skipped
}

// Save processes one decision batch for user. It always succeeds once
// the batch is partitioned; failures of individual downstream steps are
// logged and skipped.
func (s *DecisionService) Save(ctx context.Context, user models.User, decisions []models.Decision) error {
	accepted, rejected, skipped := Partition(decisions)
	date := s.now()
	today := date.Format("2006-01-02")

	if err := s.store.AddProcessedOrders(user.Username, len(decisions)); err != nil {
		s.log.Warn("failed to update processed-orders counter for %s: %v", user.Username, err)
	}

	row := []interface{}{today, user.Username, len(accepted), len(rejected), len(skipped)}
	if err := s.sheets.AppendRow(ctx, row); err != nil {
		s.log.Warn("spreadsheet append failed: %v", err)
	}

	s.dispatchManifest(ctx, accepted, pdf.Positive, date, "✅ Принятые заказы")
	s.dispatchManifest(ctx, rejected, pdf.Negative, date, "❌ Отклонённые / отложенные заказы")

	if err := s.store.SetLastReport(models.LastReport{Date: today, User: user.Username}); err != nil {
		s.log.Warn("failed to persist last-report marker: %v", err)
	}

	events.Emit("decisions.saved", models.LastReport{Date: today, User: user.Username})
	return nil
}

// dispatchManifest renders one manifest variant and, when it has rows,
// sends and archives it.
func (s *DecisionService) dispatchManifest(ctx context.Context, items []models.OrderLineRecord, v pdf.Variant, date time.Time, caption string) {
	path, err := s.manifests.Generate(items, v, date)
	if err != nil {
		s.log.Warn("manifest generation failed: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}
	if err := s.notifier.SendDocument(path, caption); err != nil {
		s.log.Warn("chat delivery failed for %s: %v", path, err)
	}
	if s.archive != nil {
		if err := s.archive.Upload(ctx, path); err != nil {
			s.log.Warn("archive upload failed for %s: %v", path, err)
		}
	}
}
