package models

import (
	"errors"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"strings"
)

// Role is a closed variant. The zero value is not a valid role.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

var errUnknownRole = errors.New("unknown role")

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", exceptions.ErrInvalidRole(errUnknownRole, value)
}

func (r Role) String() string {
	return string(r)
}

func (r Role) DashboardPath() string {
	switch r {
	case RolePatient:
		return constvars.DashboardPathPatient
	case RoleDoctor:
		return constvars.DashboardPathDoctor
	case RoleAdmin:
		return constvars.DashboardPathAdmin
	}
	return ""
}
