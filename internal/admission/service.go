package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/sentinel"
	"neighnet/pkg/requestcontext"
)

var tracer = otel.Tracer("neighnet/admission")

// Notifier delivers best-effort push notifications about gate activity.
// Implementations must not block the scan path; failures are the
// implementation's problem to log, not the caller's to handle.
type Notifier interface {
	NotifyScan(ctx context.Context, visit *VisitRecord)
}

// Auditor records gate events on the audit stream. Best effort as well.
type Auditor interface {
	Record(ctx context.Context, action string, attrs map[string]string)
}

// Service runs the two-scan admission protocol. The first scan of a pass
// records the entry along with the expiry claimed by the envelope; the
// second records the exit, validated against the stored expiry only. A
// third scan, and any row shape the protocol cannot produce, is rejected
// as invalid_state.
type Service struct {
	store    Store
	notifier Notifier
	auditor  Auditor
	metrics  *Metrics
	logger   *slog.Logger
}

func NewService(store Store, notifier Notifier, auditor Auditor, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, notifier: notifier, auditor: auditor, metrics: metrics, logger: logger}
}

// ScanResult reports which transition a scan performed.
type ScanResult struct {
	Kind  Kind
	Visit *VisitRecord
}

// Scan performs one admission transition for the pass in input. The caller
// is expected to have already verified the envelope signature; this layer
// trusts the IDs but never the claimed expiry beyond the first scan.
func (s *Service) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	ctx, span := tracer.Start(ctx, "admission.Scan",
		trace.WithAttributes(attribute.String("pass_id", input.PassID.String())))
	defer span.End()

	started := time.Now()
	result, err := s.scan(ctx, input)
	s.metrics.ObserveScanDuration(time.Since(started))
	if err != nil {
		s.metrics.RecordScan(string(dErrors.CodeOf(err)))
		span.SetAttributes(attribute.String("outcome", string(dErrors.CodeOf(err))))
		return nil, err
	}
	s.metrics.RecordScan(string(result.Kind))
	span.SetAttributes(attribute.String("outcome", string(result.Kind)))
	return result, nil
}

func (s *Service) scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	if input.PassID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "pass id is required")
	}
	if input.VisitorID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "visitor id is required")
	}

	records, err := s.store.ListByPass(ctx, input.PassID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to load visit history")
	}

	now := requestcontext.Now(ctx)

	switch state := StateOf(records).(type) {
	case Unseen:
		return s.recordEntry(ctx, input, now)
	case Entered:
		return s.recordExit(ctx, input, state, now)
	case Exited:
		return nil, dErrors.New(dErrors.CodeInvalidState, "pass already fully used")
	default:
		return nil, dErrors.New(dErrors.CodeInvalidState, "visit history for this pass is inconsistent")
	}
}

func (s *Service) recordEntry(ctx context.Context, input ScanInput, now time.Time) (*ScanResult, error) {
	if input.ClaimedExpiry == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "entry scan requires the envelope expiry")
	}
	if now.After(*input.ClaimedExpiry) {
		return nil, dErrors.New(dErrors.CodeExpired, "pass has expired")
	}

	record := &VisitRecord{
		ID:        id.NewVisitID(),
		PassID:    input.PassID,
		VisitorID: input.VisitorID,
		GuardID:   input.GuardID,
		Kind:      KindEntry,
		Timestamp: now,
		ExpiresAt: input.ClaimedExpiry,
	}
	if err := s.append(ctx, record); err != nil {
		return nil, err
	}

	s.afterScan(ctx, record)
	return &ScanResult{Kind: KindEntry, Visit: record}, nil
}

func (s *Service) recordExit(ctx context.Context, input ScanInput, state Entered, now time.Time) (*ScanResult, error) {
	// The expiry stored at entry time is authoritative; a claimed expiry on
	// the exit scan is ignored.
	if now.After(state.ExpiresAt) {
		return nil, dErrors.New(dErrors.CodeExpired, "pass has expired")
	}

	record := &VisitRecord{
		ID:        id.NewVisitID(),
		PassID:    input.PassID,
		VisitorID: input.VisitorID,
		GuardID:   input.GuardID,
		Kind:      KindExit,
		Timestamp: now,
	}
	if err := s.append(ctx, record); err != nil {
		return nil, err
	}

	s.afterScan(ctx, record)
	return &ScanResult{Kind: KindExit, Visit: record}, nil
}

func (s *Service) append(ctx context.Context, record *VisitRecord) error {
	err := s.store.Append(ctx, record)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrConflict) {
		// A concurrent scan already consumed this transition. To the loser
		// that is the same as scanning an already-used pass.
		return dErrors.New(dErrors.CodeInvalidState, "pass already fully used")
	}
	return dErrors.Wrap(err, dErrors.CodeDependency, "failed to record visit")
}

// afterScan runs the best-effort side effects. A lost notification or audit
// event never fails the scan.
func (s *Service) afterScan(ctx context.Context, record *VisitRecord) {
	if s.notifier != nil {
		s.notifier.NotifyScan(ctx, record)
	}
	if s.auditor != nil {
		attrs := map[string]string{
			"pass_id":    record.PassID.String(),
			"visitor_id": record.VisitorID.String(),
			"kind":       string(record.Kind),
		}
		if record.GuardID != nil {
			attrs["guard_id"] = record.GuardID.String()
		}
		s.auditor.Record(ctx, "visit.scan", attrs)
	}
	s.logger.InfoContext(ctx, "visit recorded",
		slog.String("visit_id", record.ID.String()),
		slog.String("pass_id", record.PassID.String()),
		slog.String("kind", string(record.Kind)))
}
