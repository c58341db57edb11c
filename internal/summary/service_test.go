package summary_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/summary"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/internal/user"
	"github.com/frahmantamala/timesheet/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubReports []report.Report

func (s stubReports) GetAllReports(context.Context, int) []report.Report {
	return s
}

type stubProjects struct{}

func (stubProjects) GetProjects(context.Context) []project.Project {
	return project.DefaultCatalog()
}

func (stubProjects) GetUserProjects(context.Context, int64) []project.Project {
	return project.DefaultCatalog()[:1]
}

type stubUsers struct {
	admins internal.AdminSet
	users  []*user.User
}

func (s stubUsers) GetUser(_ context.Context, id int64) (*user.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s stubUsers) GetAllUsers(context.Context) []*user.User {
	return s.users
}

func (s stubUsers) IsAdmin(id int64) bool {
	return s.admins.Contains(id)
}

var _ = Describe("Summary Service", func() {
	var service *summary.Service

	BeforeEach(func() {
		reports := stubReports{
			rep(1, "Анна", "РС", 6, "2024-05-06 17:00:00"),
			rep(2, "Борис", "КП", 8, "2024-05-06 18:00:00"),
		}
		users := stubUsers{
			admins: internal.NewAdminSet([]int64{2}),
			users:  []*user.User{{ID: 1, Username: "Анна"}, {ID: 2, Username: "Борис"}},
		}
		service = summary.NewService(reports, stubProjects{}, users, logger.Discard())
	})

	It("should leave admin stats out for regular users", func() {
		payload := service.BuildSummary(context.Background(), 1)

		Expect(payload.Admin).To(BeFalse())
		Expect(payload.Username).To(Equal("Анна"))
		Expect(payload.Projects).To(HaveLen(1))
		Expect(payload.AllProjects).To(HaveLen(3))
		Expect(payload.AllUsers).To(HaveLen(2))
		Expect(payload.UserStats.TotalHours).To(Equal(6.0))
		Expect(payload.AdminStats).To(BeNil())
	})

	It("should include admin stats for admins", func() {
		payload := service.BuildSummary(context.Background(), 2)

		Expect(payload.Admin).To(BeTrue())
		Expect(payload.AdminStats).NotTo(BeNil())
		Expect(payload.AdminStats.TotalHours).To(Equal(14.0))
	})

	It("should serve the payload with the dashboard keys", func() {
		handler := summary.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, service)
		req := httptest.NewRequest(http.MethodGet, "/summary", nil)
		req = req.WithContext(internal.ContextWithCaller(context.Background(), internal.Caller{ID: 3, Username: "new"}))
		w := httptest.NewRecorder()

		handler.GetSummary(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]any
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveKey("user_stats"))
		Expect(body).To(HaveKey("all_projects"))
		Expect(body).To(HaveKeyWithValue("admin_stats", BeNil()))
		Expect(body).To(HaveKeyWithValue("username", "new"))
	})
})
