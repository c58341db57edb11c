package user

import (
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/common/validation"
)

type RegisterUserDTO struct {
	Username string `json:"username"`
}

func (dto *RegisterUserDTO) Validate() *internal.AppError {
	dto.Username = strings.TrimSpace(dto.Username)
	return validation.ValidateUsername(dto.Username)
}

type UserResponse struct {
	User    *User `json:"user"`
	IsAdmin bool  `json:"is_admin"`
}

type UsersResponse struct {
	Users  []*User `json:"users"`
	Admins []int64 `json:"admins"`
}
