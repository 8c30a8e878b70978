package contracts

import "context"

// IdentityDirectory owns credentials. Ids it returns are used as account ids.
type IdentityDirectory interface {
	LookupByEmail(ctx context.Context, email string) (string, error)
	Create(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Update(ctx context.Context, identityID string, email, password *string) error
	Delete(ctx context.Context, identityID string) error
}
