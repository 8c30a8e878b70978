package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/dto/responses"
)

type AssignmentUsecase interface {
	Assign(ctx context.Context, actor *models.Session, doctorID, patientID string) (*responses.AssignmentResult, error)
	Unassign(ctx context.Context, actor *models.Session, doctorID, patientID string) (*responses.AssignmentResult, error)
}
