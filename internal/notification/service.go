package notification

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"neighnet/internal/admission"
	"neighnet/internal/visitor"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
)

const (
	defaultInboxSize = 128
	sendTimeout      = 15 * time.Second
)

// VisitorDirectory resolves a visitor to find the resident to notify.
type VisitorDirectory interface {
	Get(ctx context.Context, visitorID id.VisitorID) (*visitor.Visitor, error)
}

// Service pushes gate activity to the resident who registered the visitor.
// Scans enqueue onto an inbox and return immediately; a background worker
// resolves recipients and talks to Expo. Delivery is best effort.
type Service struct {
	visitors VisitorDirectory
	tokens   TokenStore
	expo     *ExpoClient
	inbox    chan *admission.VisitRecord
	logger   *slog.Logger
}

func NewService(visitors VisitorDirectory, tokens TokenStore, expo *ExpoClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		visitors: visitors,
		tokens:   tokens,
		expo:     expo,
		inbox:    make(chan *admission.VisitRecord, defaultInboxSize),
		logger:   logger,
	}
}

// NotifyScan enqueues a visit for push delivery. Never blocks; a full inbox
// drops the notification.
func (s *Service) NotifyScan(ctx context.Context, visit *admission.VisitRecord) {
	select {
	case s.inbox <- visit:
	default:
		s.logger.WarnContext(ctx, "notification inbox full, dropping push",
			slog.String("visit_id", visit.ID.String()))
	}
}

// RegisterToken stores an Expo push token for the caller's devices.
func (s *Service) RegisterToken(ctx context.Context, userID id.UserID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return dErrors.New(dErrors.CodeBadRequest, "push token is required")
	}
	if err := s.tokens.Register(ctx, userID, token); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to register push token")
	}
	return nil
}

// Run drains the inbox until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case visit := <-s.inbox:
			s.deliver(visit)
		}
	}
}

func (s *Service) deliver(visit *admission.VisitRecord) {
	// The originating request is finished; deliveries run on their own clock.
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	v, err := s.visitors.Get(ctx, visit.VisitorID)
	if err != nil {
		s.logger.Error("push skipped, visitor lookup failed",
			slog.String("visit_id", visit.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	tokens, err := s.tokens.Tokens(ctx, v.OwnerResidentID)
	if err != nil {
		s.logger.Error("push skipped, token lookup failed",
			slog.String("visit_id", visit.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if len(tokens) == 0 {
		return
	}

	title := "Visitante ingresó"
	if visit.Kind == admission.KindExit {
		title = "Visitante salió"
	}
	messages := make([]Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, Message{
			To:    token,
			Title: title,
			Body:  v.Name,
			Data: map[string]string{
				"visit_id": visit.ID.String(),
				"kind":     string(visit.Kind),
			},
		})
	}

	if err := s.expo.Send(ctx, messages); err != nil {
		s.logger.Error("push delivery failed",
			slog.String("visit_id", visit.ID.String()),
			slog.String("error", err.Error()))
	}
}
