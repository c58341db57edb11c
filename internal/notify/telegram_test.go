package notify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sentMessage struct {
	path      string
	chatID    string
	text      string
	parseMode string
}

var _ = Describe("TelegramNotifier", func() {
	var (
		server *httptest.Server
		mu     sync.Mutex
		last   sentMessage
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseMultipartForm(1 << 20)

			mu.Lock()
			last = sentMessage{
				path:      r.URL.Path,
				chatID:    r.FormValue("chat_id"),
				text:      r.FormValue("text"),
				parseMode: r.FormValue("parse_mode"),
			}
			chatID := last.chatID
			mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			if chatID == "403" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newNotifier := func(apiURL, token string) *notify.TelegramNotifier {
		n, err := notify.NewTelegramNotifier(apiURL, token, time.Second, logger.Discard())
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	It("should send an HTML message to the user's chat", func() {
		n := newNotifier(server.URL+"/", "123:abc")

		Expect(n.Notify(context.Background(), 42, "<b>hi</b>")).To(Succeed())

		mu.Lock()
		defer mu.Unlock()
		Expect(last.path).To(Equal("/bot123:abc/sendMessage"))
		Expect(last.chatID).To(Equal("42"))
		Expect(last.parseMode).To(Equal("HTML"))
		Expect(last.text).To(Equal("<b>hi</b>"))
	})

	It("should recognise a user who blocked the bot", func() {
		n := newNotifier(server.URL, "123:abc")

		err := n.Notify(context.Background(), 403, "hi")
		Expect(err).To(HaveOccurred())
		Expect(notify.IsBlocked(err)).To(BeTrue())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeDeliveryFailed))
		Expect(err.Error()).To(ContainSubstring("blocked"))
	})

	It("should keep the token out of transport errors", func() {
		n := newNotifier("http://127.0.0.1:1", "secret-token")

		err := n.Notify(context.Background(), 1, "hi")
		Expect(err).To(HaveOccurred())
		Expect(notify.IsBlocked(err)).To(BeFalse())
		Expect(err.Error()).NotTo(ContainSubstring("secret-token"))
	})

	It("should not treat other failures as blocked", func() {
		Expect(notify.IsBlocked(errors.New("timeout"))).To(BeFalse())
		Expect(notify.IsBlocked(nil)).To(BeFalse())
	})
})
