package utils

import (
	"context"
	"errors"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"net/http"

	"github.com/goccy/go-json"
)

// ParseJSONBody decodes the request body into dst and runs struct validation on it.
func ParseJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := ValidateStruct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

func GetSessionFromContext(ctx context.Context) (*models.Session, error) {
	session, ok := ctx.Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	if !ok || session == nil {
		return nil, exceptions.ErrMissingSessionData(errors.New(constvars.ErrDevMissingSessionData))
	}
	return session, nil
}
