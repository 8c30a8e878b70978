package utils

import (
	"errors"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const jwtSessionIDClaim = "session_id"

func GenerateSessionJWT(sessionID, secret string, expiryInHours int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		jwtSessionIDClaim: sessionID,
		"exp":             time.Now().Add(time.Duration(expiryInHours) * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}

	return tokenString, nil
}

// ParseJWT validates an HS256 session token and returns its session id.
func ParseJWT(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", exceptions.ErrTokenInvalid(err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if sessionID, ok := claims[jwtSessionIDClaim].(string); ok && sessionID != "" {
			return sessionID, nil
		}
	}

	return "", exceptions.ErrTokenInvalid(nil)
}
