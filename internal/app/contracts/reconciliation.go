package contracts

import "context"

type ReconciliationService interface {
	Start() error
	Stop(ctx context.Context) error
	Sweep(ctx context.Context) (int64, error)
}
