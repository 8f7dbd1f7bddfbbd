package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-service/internal/config"
	"github.com/spec-kit/clinic-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventExaminationCreated, n.handleExaminationCreated)
	n.dispatcher.Subscribe(events.EventAIAnalysisCompleted, n.handleAnalysisCompleted)
	n.dispatcher.Subscribe(events.EventReportGenerated, n.handleReportGenerated)
}

func (n *NotificationService) handleExaminationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ExaminationCreated", zap.String("examination_id", event.ExaminationID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAnalysisCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("AIAnalysisCompleted", zap.String("examination_id", event.ExaminationID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReportGenerated(ctx context.Context, event events.Event) error {
	n.logger.Info("ReportGenerated", zap.String("examination_id", event.ExaminationID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("examination_id", event.ExaminationID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("examination_id", event.ExaminationID),
		zap.String("event_type", string(event.Type)))
}
