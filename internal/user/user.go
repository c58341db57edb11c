package user

import (
	"strconv"

	userDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/user"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}

func ToDataModel(u *User) (string, userDatamodel.Profile) {
	return strconv.FormatInt(u.ID, 10), userDatamodel.Profile{
		Username:     u.Username,
		RegisteredAt: u.RegisteredAt,
	}
}

// FromDataModel rebuilds a User from its document key; keys that are not
// numeric ids are reported as not ok.
func FromDataModel(key string, p userDatamodel.Profile) (*User, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, false
	}
	return &User{
		ID:           id,
		Username:     p.Username,
		RegisteredAt: p.RegisteredAt,
	}, true
}
