package audit

import (
	"context"
	"fmt"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rabbitMQPublisher struct {
	Channel   *amqp091.Channel
	QueueName string
	Log       *zap.Logger
	// amqp091 channels must not be used for concurrent publishes
	mu sync.Mutex
}

// NewRabbitMQPublisher opens a dedicated channel and declares the durable audit queue.
func NewRabbitMQPublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) (contracts.AuditPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitMQ channel: %w", err)
	}

	_, err = channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	return &rabbitMQPublisher{
		Channel:   channel,
		QueueName: queueName,
		Log:       logger,
	}, nil
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event *models.AuditEvent) error {
	fillEventDefaults(event)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Channel.PublishWithContext(ctx, "", p.QueueName, false, false, amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.QueueName)
	}
	return nil
}

// NewLogPublisher writes audit events to the logger only. Used by tools that
// run without a broker.
func NewLogPublisher(logger *zap.Logger) contracts.AuditPublisher {
	return &logPublisher{Log: logger}
}

type logPublisher struct {
	Log *zap.Logger
}

func (p *logPublisher) Publish(ctx context.Context, event *models.AuditEvent) error {
	fillEventDefaults(event)
	p.Log.Info("audit event",
		zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
		zap.String(constvars.LoggingRequestIDKey, event.RequestID),
		zap.String("actor_id", event.ActorID),
		zap.String("subject_id", event.SubjectID),
		zap.Any("attributes", event.Attributes),
	)
	return nil
}

func fillEventDefaults(event *models.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Source == "" {
		event.Source = constvars.AuditEventSourceService
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
}

// Emit publishes event and only logs a failure. Audit delivery never fails
// the business operation that produced the event.
func Emit(ctx context.Context, publisher contracts.AuditPublisher, logger *zap.Logger, event *models.AuditEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("audit.Emit failed to publish audit event",
			zap.String(constvars.LoggingRequestIDKey, event.RequestID),
			zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
			zap.Error(err),
		)
	}
}
