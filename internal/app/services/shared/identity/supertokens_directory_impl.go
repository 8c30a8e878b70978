package identity

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"

	"github.com/supertokens/supertokens-golang/recipe/emailpassword"
	"github.com/supertokens/supertokens-golang/supertokens"
	"go.uber.org/zap"
)

var (
	errIdentityNotFound  = errors.New("identity not found")
	errUnexpectedReply   = errors.New("unexpected reply from identity provider")
	errPasswordPolicy    = errors.New("password rejected by identity provider policy")
	errWrongCredentials  = errors.New(constvars.ErrDevAuthWrongCredentials)
	errEmailAlreadyTaken = errors.New(constvars.ErrDevEmailAlreadyExists)
)

// supertokensDirectory talks to the SuperTokens core through the emailpassword
// recipe. The SDK calls are synchronous and carry no context, so cancellation
// is only honoured between calls.
type supertokensDirectory struct {
	TenantID string
	Log      *zap.Logger
}

func NewSupertokensDirectory(tenantID string, logger *zap.Logger) contracts.IdentityDirectory {
	return &supertokensDirectory{
		TenantID: tenantID,
		Log:      logger,
	}
}

func (d *supertokensDirectory) LookupByEmail(ctx context.Context, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", exceptions.ErrServerDeadlineExceeded(err)
	}

	user, err := emailpassword.GetUserByEmail(d.TenantID, email)
	if err != nil {
		d.Log.Error("supertokensDirectory.LookupByEmail error calling emailpassword.GetUserByEmail",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return "", exceptions.ErrIdentityLookup(err)
	}
	if user == nil {
		return "", exceptions.ErrAccountNotFound(errIdentityNotFound, email)
	}
	return user.ID, nil
}

func (d *supertokensDirectory) Create(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", exceptions.ErrServerDeadlineExceeded(err)
	}

	response, err := emailpassword.SignUp(d.TenantID, email, password)
	if err != nil {
		d.Log.Error("supertokensDirectory.Create error calling emailpassword.SignUp",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return "", exceptions.ErrIdentityCreate(err)
	}

	if response.EmailAlreadyExistsError != nil {
		return "", exceptions.ErrEmailAlreadyExist(errEmailAlreadyTaken)
	}
	if response.OK == nil {
		return "", exceptions.ErrIdentityCreate(errUnexpectedReply)
	}
	return response.OK.User.ID, nil
}

func (d *supertokensDirectory) Authenticate(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", exceptions.ErrServerDeadlineExceeded(err)
	}

	response, err := emailpassword.SignIn(d.TenantID, email, password)
	if err != nil {
		d.Log.Error("supertokensDirectory.Authenticate error calling emailpassword.SignIn",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return "", exceptions.ErrIdentityAuthenticate(err)
	}

	if response.WrongCredentialsError != nil {
		return "", exceptions.ErrInvalidEmailOrPassword(errWrongCredentials)
	}
	if response.OK == nil {
		return "", exceptions.ErrIdentityAuthenticate(errUnexpectedReply)
	}
	return response.OK.User.ID, nil
}

func (d *supertokensDirectory) Update(ctx context.Context, identityID string, email, password *string) error {
	if err := ctx.Err(); err != nil {
		return exceptions.ErrServerDeadlineExceeded(err)
	}

	response, err := emailpassword.UpdateEmailOrPassword(identityID, email, password, nil, &d.TenantID)
	if err != nil {
		d.Log.Error("supertokensDirectory.Update error calling emailpassword.UpdateEmailOrPassword",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAccountIDKey, identityID),
			zap.Error(err),
		)
		return exceptions.ErrIdentityUpdate(err)
	}

	switch {
	case response.OK != nil:
		return nil
	case response.UnknownUserIdError != nil:
		return exceptions.ErrAccountNotFound(errIdentityNotFound, identityID)
	case response.EmailAlreadyExistsError != nil:
		return exceptions.ErrEmailAlreadyExist(errEmailAlreadyTaken)
	case response.PasswordPolicyViolatedError != nil:
		return exceptions.ErrInputValidation(errPasswordPolicy)
	}
	return exceptions.ErrIdentityUpdate(errUnexpectedReply)
}

func (d *supertokensDirectory) Delete(ctx context.Context, identityID string) error {
	if err := ctx.Err(); err != nil {
		return exceptions.ErrServerDeadlineExceeded(err)
	}

	if err := supertokens.DeleteUser(identityID); err != nil {
		d.Log.Error("supertokensDirectory.Delete error calling supertokens.DeleteUser",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAccountIDKey, identityID),
			zap.Error(err),
		)
		return exceptions.ErrIdentityDelete(err)
	}
	return nil
}
