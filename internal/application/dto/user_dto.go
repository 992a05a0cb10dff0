package dto

import "time"

// RegisterRequest alta de un usuario en una empresa existente. Role vacío equivale a comercial.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Role      string `json:"role"` // admin | comercial | contador
}

// UserResponse usuario sin hash de contraseña.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de sesión más el usuario; el rol del token decide qué grupos de rutas ve.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
