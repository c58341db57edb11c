package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	userDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/internal/user"
	"github.com/frahmantamala/timesheet/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

var _ = Describe("User Handler", func() {
	var handler *user.Handler

	BeforeEach(func() {
		fs, err := filestore.New(afero.NewMemMapFs(), "data")
		Expect(err).NotTo(HaveOccurred())
		users := storage.NewCollection(fs, storage.Users, userDatamodel.NewUsers, logger.Discard())
		clk := clock.NewFixed(time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC))
		service := user.NewService(users, internal.NewAdminSet([]int64{10}), clk, logger.Discard())
		handler = user.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, service)
	})

	register := func(caller internal.Caller, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
		req = req.WithContext(internal.ContextWithCaller(context.Background(), caller))
		w := httptest.NewRecorder()
		handler.RegisterUser(w, req)
		return w
	}

	It("should fall back to the caller username", func() {
		w := register(internal.Caller{ID: 10, Username: "boss"}, `{}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.User.Username).To(Equal("boss"))
		Expect(resp.IsAdmin).To(BeTrue())
	})

	It("should reject a registration without any name", func() {
		w := register(internal.Caller{ID: 11}, `{"username": "   "}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a malformed body", func() {
		w := register(internal.Caller{ID: 11, Username: "x"}, `{"username": `)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeMalformedPayload)))
	})

	It("should require a caller", func() {
		req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		handler.RegisterUser(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should list registered users", func() {
		register(internal.Caller{ID: 12, Username: "b"}, `{}`)
		register(internal.Caller{ID: 11, Username: "a"}, `{}`)

		w := httptest.NewRecorder()
		handler.ListUsers(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		var resp user.UsersResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Users).To(HaveLen(2))
		Expect(resp.Users[0].ID).To(Equal(int64(11)))
		Expect(resp.Admins).To(Equal([]int64{10}))
	})

	Describe("GetUser", func() {
		var router *chi.Mux

		BeforeEach(func() {
			router = chi.NewRouter()
			router.Get("/users/{id}", handler.GetUser)
		})

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			return w
		}

		It("should return a registered user", func() {
			register(internal.Caller{ID: 10, Username: "boss"}, `{}`)

			w := get("/users/10")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp user.UserResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.User.Username).To(Equal("boss"))
			Expect(resp.IsAdmin).To(BeTrue())
		})

		It("should answer 404 for an unknown user", func() {
			w := get("/users/404")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeUserNotFound)))
		})

		It("should reject a non-numeric id", func() {
			Expect(get("/users/abc").Code).To(Equal(http.StatusBadRequest))
		})
	})
})
