package users

import (
	"hogwarts-artifacts/internal/domain/users"
)

// UserDTO never carries the password.
type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username" binding:"required"`
	Enabled  bool   `json:"enabled"`
	Roles    string `json:"roles" binding:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Enabled  bool   `json:"enabled"`
	Roles    string `json:"roles" binding:"required"`
}

func ToDTO(u users.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username, Enabled: u.Enabled, Roles: u.Roles}
}
