package requests

type CreateAccount struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,role"`
}

// UpdateAccount carries optional fields; nil means unchanged.
type UpdateAccount struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
}
