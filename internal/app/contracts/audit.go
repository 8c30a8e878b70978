package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
)

type AuditPublisher interface {
	Publish(ctx context.Context, event *models.AuditEvent) error
}
