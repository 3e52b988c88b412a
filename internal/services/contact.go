package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/folioweb/siteserver/internal/mq"
	"github.com/folioweb/siteserver/types"
	"go.uber.org/zap"
)

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg types.ContactMessage) error
}

// Publisher sends notification events. *mq.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// ContactService stores contact messages and, when a broker is
// configured, publishes a notification for each one.
type ContactService struct {
	repo ContactRepository
	bus  Publisher
	log  *zap.Logger
}

// NewContactService constructs a ContactService. bus may be nil when no
// notification backend is configured.
func NewContactService(repo ContactRepository, bus Publisher, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{repo: repo, bus: bus, log: log}
}

// Submit persists the message. Notification publishing is best-effort:
// a broker failure is logged and never fails the submission.
func (s *ContactService) Submit(ctx context.Context, msg types.ContactMessage) error {
	if err := s.repo.Create(ctx, msg); err != nil {
		return err
	}

	if s.bus != nil {
		event := mq.ContactReceived{
			Email:       msg.Email,
			Phone:       msg.Phone,
			Message:     msg.Message,
			SubmittedAt: time.Now().UTC(),
		}
		data, err := json.Marshal(event)
		if err == nil {
			_, err = s.bus.Publish(ctx, mq.ChannelContactReceived, data, nil)
		}
		if err != nil {
			s.log.Warn("contact notification publish failed", zap.Error(err))
		}
	}

	return nil
}
