package user

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	userDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/user"
)

// Repository is satisfied by the users storage collection.
type Repository interface {
	Load(ctx context.Context) userDatamodel.Users
	View(ctx context.Context, fn func(userDatamodel.Users))
	Update(ctx context.Context, fn func(userDatamodel.Users) (userDatamodel.Users, bool)) userDatamodel.Users
}

type Service struct {
	repo   Repository
	admins internal.AdminSet
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo Repository, admins internal.AdminSet, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		admins: admins,
		clock:  clk,
		logger: logger,
	}
}

// RegisterUser creates the user on first contact and refreshes the display
// name when it changed. The registration timestamp is never rewritten and an
// unchanged name does not touch storage.
func (s *Service) RegisterUser(ctx context.Context, id int64, username string) *User {
	key := strconv.FormatInt(id, 10)
	var (
		result *User
		event  string
	)

	s.repo.Update(ctx, func(users userDatamodel.Users) (userDatamodel.Users, bool) {
		if users == nil {
			users = userDatamodel.NewUsers()
		}
		profile, exists := users[key]
		switch {
		case !exists:
			profile = userDatamodel.Profile{
				Username:     username,
				RegisteredAt: s.clock.Now().Format(clock.DateTimeLayout),
			}
			event = "registered"
		case profile.Username != username:
			profile.Username = username
			event = "renamed"
		default:
			result, _ = FromDataModel(key, profile)
			return users, false
		}
		users[key] = profile
		result, _ = FromDataModel(key, profile)
		return users, true
	})

	if event != "" {
		s.logger.Info("user "+event, "user_id", id, "username", username)
	}
	return result
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, bool) {
	users := s.repo.Load(ctx)
	profile, ok := users[strconv.FormatInt(id, 10)]
	if !ok {
		return nil, false
	}
	return &User{ID: id, Username: profile.Username, RegisteredAt: profile.RegisteredAt}, true
}

// GetAllUsers returns every known user ordered by id.
func (s *Service) GetAllUsers(ctx context.Context) []*User {
	var out []*User
	s.repo.View(ctx, func(users userDatamodel.Users) {
		out = make([]*User, 0, len(users))
		for key, profile := range users {
			u, ok := FromDataModel(key, profile)
			if !ok {
				s.logger.Warn("skipping user with non-numeric id", "key", key)
				continue
			}
			out = append(out, u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindUser is GetUser for callers that need a NOT_FOUND error.
func (s *Service) FindUser(ctx context.Context, id int64) (*User, error) {
	u, ok := s.GetUser(ctx, id)
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UserIDs(ctx context.Context) []int64 {
	users := s.GetAllUsers(ctx)
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

// Username returns the stored display name, or "" for unknown users.
func (s *Service) Username(ctx context.Context, id int64) string {
	if u, ok := s.GetUser(ctx, id); ok {
		return u.Username
	}
	return ""
}

func (s *Service) IsAdmin(id int64) bool {
	return s.admins.Contains(id)
}

func (s *Service) Admins() []int64 {
	return s.admins.IDs()
}
