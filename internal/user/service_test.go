package user_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	userDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/frahmantamala/timesheet/internal/user"
	"github.com/frahmantamala/timesheet/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// countingStore counts writes so specs can assert that nothing was persisted.
type countingStore struct {
	storage.DocumentStore
	writes atomic.Int32
}

func (s *countingStore) Write(ctx context.Context, name string, data []byte) error {
	s.writes.Add(1)
	return s.DocumentStore.Write(ctx, name, data)
}

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		store   *countingStore
		clk     *clock.Fixed
		service *user.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		fs, err := filestore.New(afero.NewMemMapFs(), "data")
		Expect(err).NotTo(HaveOccurred())
		store = &countingStore{DocumentStore: fs}
		clk = clock.NewFixed(time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC))

		users := storage.NewCollection(store, storage.Users, userDatamodel.NewUsers, logger.Discard())
		service = user.NewService(users, internal.NewAdminSet([]int64{1}), clk, logger.Discard())
	})

	Describe("RegisterUser", func() {
		It("should create the user with the current timestamp", func() {
			u := service.RegisterUser(ctx, 42, "Анна")

			Expect(u.ID).To(Equal(int64(42)))
			Expect(u.Username).To(Equal("Анна"))
			Expect(u.RegisteredAt).To(Equal("2024-05-06 09:30:00"))
			Expect(store.writes.Load()).To(Equal(int32(1)))
		})

		It("should be idempotent for an unchanged name", func() {
			first := service.RegisterUser(ctx, 42, "Анна")
			clk.Advance(24 * time.Hour)
			second := service.RegisterUser(ctx, 42, "Анна")

			Expect(second).To(Equal(first))
			Expect(store.writes.Load()).To(Equal(int32(1)))
		})

		It("should refresh the name but keep the registration time", func() {
			service.RegisterUser(ctx, 42, "Анна")
			clk.Advance(time.Hour)
			u := service.RegisterUser(ctx, 42, "Анна К.")

			Expect(u.Username).To(Equal("Анна К."))
			Expect(u.RegisteredAt).To(Equal("2024-05-06 09:30:00"))
			Expect(store.writes.Load()).To(Equal(int32(2)))
		})
	})

	Describe("lookups", func() {
		BeforeEach(func() {
			service.RegisterUser(ctx, 300, "c")
			service.RegisterUser(ctx, 7, "a")
			service.RegisterUser(ctx, 20, "b")
		})

		It("should list users ordered by id", func() {
			Expect(service.UserIDs(ctx)).To(Equal([]int64{7, 20, 300}))

			all := service.GetAllUsers(ctx)
			Expect(all).To(HaveLen(3))
			Expect(all[0].Username).To(Equal("a"))
		})

		It("should resolve a single user", func() {
			u, ok := service.GetUser(ctx, 20)
			Expect(ok).To(BeTrue())
			Expect(u.Username).To(Equal("b"))

			_, ok = service.GetUser(ctx, 99)
			Expect(ok).To(BeFalse())
			Expect(service.Username(ctx, 99)).To(BeEmpty())
		})

		It("should report a missing user as not found", func() {
			u, err := service.FindUser(ctx, 300)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(int64(300)))

			_, err = service.FindUser(ctx, 99)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})

		It("should skip entries whose key is not a user id", func() {
			users := storage.NewCollection(store, storage.Users, userDatamodel.NewUsers, logger.Discard())
			users.Update(ctx, func(u userDatamodel.Users) (userDatamodel.Users, bool) {
				u["oops"] = userDatamodel.Profile{Username: "ghost"}
				return u, true
			})

			Expect(service.UserIDs(ctx)).To(Equal([]int64{7, 20, 300}))
		})
	})

	It("should only treat configured ids as admins", func() {
		Expect(service.IsAdmin(1)).To(BeTrue())
		Expect(service.IsAdmin(2)).To(BeFalse())
		Expect(service.Admins()).To(Equal([]int64{1}))
	})

	It("should map users onto their document entry", func() {
		key, profile := user.ToDataModel(&user.User{ID: 5, Username: "e", RegisteredAt: "2024-01-01 00:00:00"})
		Expect(key).To(Equal("5"))

		back, ok := user.FromDataModel(key, profile)
		Expect(ok).To(BeTrue())
		Expect(back.ID).To(Equal(int64(5)))
	})
})
