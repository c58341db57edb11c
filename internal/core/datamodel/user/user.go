package user

// Profile is one entry of the users document, keyed by the decimal user id.
type Profile struct {
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}

type Users map[string]Profile

func NewUsers() Users {
	return Users{}
}
