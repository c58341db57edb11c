package notify_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/pkg/logger"
	"github.com/go-telegram/bot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNotify(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notify Suite")
}

// inbox records deliveries and fails for the ids in blocked.
type inbox struct {
	mu       sync.Mutex
	received map[int64][]string
	blocked  map[int64]bool
}

func newInbox(blocked ...int64) *inbox {
	in := &inbox{received: map[int64][]string{}, blocked: map[int64]bool{}}
	for _, id := range blocked {
		in.blocked[id] = true
	}
	return in
}

func (in *inbox) Notify(_ context.Context, userID int64, text string) error {
	if in.blocked[userID] {
		return fmt.Errorf("%w, Forbidden: bot was blocked by the user", bot.ErrorForbidden)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.received[userID] = append(in.received[userID], text)
	return nil
}

func (in *inbox) Messages(userID int64) []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.received[userID]...)
}

var _ = Describe("Dispatcher", func() {
	var (
		box        *inbox
		dispatcher *notify.Dispatcher
	)

	BeforeEach(func() {
		box = newInbox(20)
		dispatcher = notify.NewDispatcher(box, notify.Config{MaxWorkers: 3, QueueSize: 2}, logger.Discard())
	})

	AfterEach(func() {
		dispatcher.Shutdown()
	})

	It("should deliver to every recipient and keep their order", func() {
		recipients := []int64{10, 20, 30, 40, 50, 60}
		result := dispatcher.Deliver(context.Background(), recipients, "hi")

		Expect(result.Sent).To(Equal(5))
		Expect(result.Failed).To(Equal(1))
		Expect(result.Results).To(HaveLen(len(recipients)))
		for i, r := range result.Results {
			Expect(r.UserID).To(Equal(recipients[i]))
		}
		Expect(result.Results[1].OK).To(BeFalse())
		Expect(result.Results[1].Error).To(ContainSubstring("blocked"))
		Expect(result.Results[1].Blocked).To(BeTrue())
		Expect(result.Results[0].Blocked).To(BeFalse())
		Expect(box.Messages(60)).To(Equal([]string{"hi"}))
	})

	It("should return an empty batch for no recipients", func() {
		result := dispatcher.Deliver(context.Background(), nil, "hi")
		Expect(result.Results).To(BeEmpty())
		Expect(result.Sent).To(BeZero())
	})

	It("should time out a slow delivery without blocking the others", func() {
		slow := notify.NotifierFunc(func(ctx context.Context, userID int64, _ string) error {
			if userID == 1 {
				<-ctx.Done()
				return ctx.Err()
			}
			return nil
		})
		d := notify.NewDispatcher(slow, notify.Config{MaxWorkers: 2, DeliveryTimeout: 50 * time.Millisecond}, logger.Discard())
		defer d.Shutdown()

		result := d.Deliver(context.Background(), []int64{1, 2, 3}, "x")
		Expect(result.Sent).To(Equal(2))
		Expect(result.Results[0].Error).To(ContainSubstring("deadline"))
	})

	It("should fail every recipient once shut down", func() {
		dispatcher.Shutdown()

		result := dispatcher.Deliver(context.Background(), []int64{1, 2}, "late")
		Expect(result.Failed).To(Equal(2))
		Expect(result.Results[0].Error).To(Equal(notify.ErrDispatcherStopped.Error()))
	})
})
