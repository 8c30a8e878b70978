package audit

import (
	"context"
	"errors"
	"medrecords-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) Publish(ctx context.Context, event *models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("publish failure is logged, not returned", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		publisher := new(MockAuditPublisher)
		event := &models.AuditEvent{Type: models.AuditEventAssignmentAdded, RequestID: "req-1"}
		publisher.On("Publish", ctx, event).Return(errors.New("broker down"))

		assert.NotPanics(t, func() {
			Emit(ctx, publisher, zap.New(core), event)
		})
		publisher.AssertExpectations(t)
		assert.Equal(t, 1, logs.FilterMessage("audit.Emit failed to publish audit event").Len())
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Emit(ctx, nil, zap.NewNop(), &models.AuditEvent{Type: models.AuditEventAccessDenied})
		})
	})
}

func TestLogPublisher_FillsDefaults(t *testing.T) {
	event := &models.AuditEvent{Type: models.AuditEventAccountCreated, SubjectID: "acc-1"}

	err := NewLogPublisher(zap.NewNop()).Publish(context.Background(), event)

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "medrecords-service", event.Source)
	assert.False(t, event.OccurredAt.IsZero())
}
