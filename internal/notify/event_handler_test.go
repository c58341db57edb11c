package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/events"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type userList []int64

func (u userList) UserIDs(context.Context) []int64 {
	return u
}

var _ = Describe("Admin fan-out", func() {
	var (
		box        *inbox
		dispatcher *notify.Dispatcher
		bus        *events.EventBus
	)

	BeforeEach(func() {
		box = newInbox()
		dispatcher = notify.NewDispatcher(box, notify.Config{MaxWorkers: 2}, logger.Discard())
		bus = events.NewEventBus(logger.Discard())
		notify.NewAdminFanout(dispatcher, internal.NewAdminSet([]int64{1, 2}), logger.Discard()).RegisterEventHandlers(bus)
	})

	AfterEach(func() {
		dispatcher.Shutdown()
	})

	It("should notify every admin except the submitter", func() {
		event := events.NewReportSubmittedEvent(2, "Борис", []events.SubmittedItem{{Project: "РС", Hours: 3}}, "-", "2024-05-10")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(box.Messages(1)).To(HaveLen(1))
		Expect(box.Messages(2)).To(BeEmpty())
	})

	It("should deliver asynchronously through Publish", func() {
		event := events.NewReportSubmittedEvent(7, "Иван", []events.SubmittedItem{{Project: "КП", Hours: 1}}, "-", "2024-05-10")
		Expect(bus.Publish(context.Background(), event)).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())

		Expect(box.Messages(1)).To(HaveLen(1))
		Expect(box.Messages(2)).To(HaveLen(1))
	})

	It("should render projects, total and an escaped comment", func() {
		event := events.NewReportSubmittedEvent(7, "Иван <dev>", []events.SubmittedItem{
			{Project: "РС", Hours: 6},
			{Project: "КП", Hours: 1.5},
		}, "a < b", "2024-05-10")

		text := notify.FormatSubmission(event)
		Expect(text).To(HavePrefix("📬 <b>Иван &lt;dev&gt;</b> (id 7)\n"))
		Expect(text).To(ContainSubstring("  • РС: 6 ч\n  • КП: 1.5 ч"))
		Expect(text).To(ContainSubstring("⏱ 7.5 ч"))
		Expect(text).To(HaveSuffix("💬 a &lt; b"))
	})
})

var _ = Describe("Broadcast", func() {
	var (
		box        *inbox
		dispatcher *notify.Dispatcher
	)

	BeforeEach(func() {
		box = newInbox(3)
		dispatcher = notify.NewDispatcher(box, notify.Config{}, logger.Discard())
	})

	AfterEach(func() {
		dispatcher.Shutdown()
	})

	It("should send the default text when none is given", func() {
		result := notify.Broadcast(context.Background(), dispatcher, userList{1, 2, 3}, "  ")

		Expect(result.Sent).To(Equal(2))
		Expect(result.Failed).To(Equal(1))
		Expect(box.Messages(1)).To(Equal([]string{notify.DefaultBroadcastText}))
	})

	It("should accept an empty request body", func() {
		handler := notify.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, dispatcher, userList{1})
		w := httptest.NewRecorder()
		handler.Broadcast(w, httptest.NewRequest(http.MethodPost, "/notify", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"sent":1`))
	})

	It("should send a custom text", func() {
		handler := notify.NewHandler(&transport.BaseHandler{Logger: logger.Discard()}, dispatcher, userList{1})
		w := httptest.NewRecorder()
		handler.Broadcast(w, httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`{"text":"сдаём отчёты"}`)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(box.Messages(1)).To(Equal([]string{"сдаём отчёты"}))
	})
})
