package project_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

var _ = Describe("Project Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		store, err := filestore.New(afero.NewMemMapFs(), "data")
		Expect(err).NotTo(HaveOccurred())
		handler := project.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, newService(store))

		router = chi.NewRouter()
		router.Get("/projects", handler.GetProjects)
		router.Post("/projects", handler.CreateProject)
		router.Delete("/projects/{abbr}", handler.DeleteProject)
		router.Put("/users/{id}/projects", handler.AssignProjects)
		router.Get("/assignments", handler.GetAssignments)
	})

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithCaller(context.Background(), internal.Caller{ID: 7}))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create a project with an upper-cased abbreviation", func() {
		w := serve(http.MethodPost, "/projects", `{"abbr":"дз","full":"Дизайн"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp project.MutationResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.OK).To(BeTrue())
		Expect(resp.Project.Abbr).To(Equal("ДЗ"))
	})

	It("should answer 409 for a duplicate", func() {
		w := serve(http.MethodPost, "/projects", `{"abbr":"РС","full":"Другое"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should delete a project addressed by an escaped abbreviation", func() {
		w := serve(http.MethodDelete, "/projects/"+url.PathEscape("МРК"), "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodDelete, "/projects/"+url.PathEscape("МРК"), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should assign projects and return the caller view", func() {
		w := serve(http.MethodPut, "/users/7/projects", `{"projects":["КП"]}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodGet, "/projects", "")
		var resp project.ProjectsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Projects).To(Equal([]project.Project{{Abbr: "КП", Full: "Клиентская поддержка"}}))
		Expect(resp.AllProjects).To(HaveLen(3))
	})

	It("should reject a non-numeric user id", func() {
		w := serve(http.MethodPut, "/users/abc/projects", `{"projects":[]}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should expose assignments keyed by user id", func() {
		serve(http.MethodPut, "/users/12/projects", `{"projects":["РС"]}`)
		serve(http.MethodPut, "/users/3/projects", `{"projects":["КП"]}`)

		w := serve(http.MethodGet, "/assignments", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"12":["РС"]`))

		var resp project.AssignmentsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Users).To(Equal([]int64{3, 12}))
	})
})
