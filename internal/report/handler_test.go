package report_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	reportDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/report"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

type directory map[int64]string

func (d directory) Username(_ context.Context, id int64) string {
	return d[id]
}

var _ = Describe("Report Handler", func() {
	var (
		router  *chi.Mux
		service *report.Service
	)

	BeforeEach(func() {
		store, err := filestore.New(afero.NewMemMapFs(), "data")
		Expect(err).NotTo(HaveOccurred())
		ledger := storage.NewCollection(store, storage.Reports, reportDatamodel.NewLedger, logger.Discard())
		clk := clock.NewFixed(time.Date(2024, 5, 10, 17, 5, 0, 0, time.UTC))
		service = report.NewService(ledger, clk, nil, logger.Discard())

		handler := report.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, service, directory{5: "Иван"})
		router = chi.NewRouter()
		router.Post("/reports", handler.SubmitReport)
		router.Get("/reports", handler.GetMyReports)
		router.Get("/reports/all", handler.GetAllReports)
		router.Delete("/users/{id}/reports", handler.DeleteUserReports)
	})

	serve := func(caller internal.Caller, method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithCaller(context.Background(), caller))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should accept a multi-project submission and sum the hours", func() {
		w := serve(internal.Caller{ID: 5, Username: "ivan"}, http.MethodPost, "/reports",
			`{"projects":[{"project":"РС","hours":6},{"project":"КП","hours":1.5}],"comments":"ok"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp report.SubmitReportResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Reports).To(HaveLen(2))
		Expect(resp.TotalHours).To(Equal(7.5))
		Expect(resp.Reports[0].Username).To(Equal("ivan"))
	})

	It("should accept the single project form and resolve the stored name", func() {
		w := serve(internal.Caller{ID: 5}, http.MethodPost, "/reports", `{"project":"РС","hours":8}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		reports := service.GetUserReports(context.Background(), 5, 0)
		Expect(reports).To(HaveLen(1))
		Expect(reports[0].Username).To(Equal("Иван"))
		Expect(reports[0].Comments).To(Equal("-"))
	})

	It("should reject an empty submission", func() {
		w := serve(internal.Caller{ID: 5}, http.MethodPost, "/reports", `{"projects":[]}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeEmptySubmission)))
	})

	It("should list the caller's reports within the window", func() {
		serve(internal.Caller{ID: 5}, http.MethodPost, "/reports", `{"project":"РС","hours":8}`)
		serve(internal.Caller{ID: 6}, http.MethodPost, "/reports", `{"project":"КП","hours":2}`)

		w := serve(internal.Caller{ID: 5}, http.MethodGet, "/reports?days=7", "")
		var resp report.ReportsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Days).To(Equal(7))
		Expect(resp.Reports).To(HaveLen(1))

		w = serve(internal.Caller{ID: 5}, http.MethodGet, "/reports/all", "")
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Reports).To(HaveLen(2))
	})

	It("should purge a user's reports", func() {
		serve(internal.Caller{ID: 6}, http.MethodPost, "/reports", `{"project":"КП","hours":2}`)

		w := serve(internal.Caller{ID: 1}, http.MethodDelete, "/users/6/reports", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp report.DeleteReportsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Removed).To(Equal(1))
	})
})
