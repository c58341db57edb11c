package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{}
		cfg.Defaults()
	})

	It("should default to the weekday reminder at 16:50 Moscow time", func() {
		cfg.Reminder.DefaultTime()
		Expect(cfg.Reminder.Weekdays).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(cfg.Reminder.Timezone).To(Equal(internal.DefaultTimezone))
		Expect(cfg.Reminder.CronSpec()).To(Equal("50 16 * * 1,2,3,4,5"))
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverFile))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should keep an explicit reminder time", func() {
		c := &internal.Config{Reminder: internal.ReminderConfig{Hour: 9, Minute: 0, Weekdays: []int{0, 6}}}
		c.Defaults()
		Expect(c.Reminder.CronSpec()).To(Equal("0 9 * * 0,6"))
	})

	It("should keep a midnight reminder", func() {
		c := &internal.Config{Reminder: internal.ReminderConfig{Hour: 0, Minute: 0}}
		c.Defaults()
		Expect(c.Reminder.CronSpec()).To(Equal("0 0 * * 1,2,3,4,5"))
		Expect(c.Validate()).To(Succeed())
	})

	DescribeTable("should reject invalid settings",
		func(mutate func(*internal.Config), fragment string) {
			mutate(cfg)
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("hour", func(c *internal.Config) { c.Reminder.Hour = 24 }, "hour 24"),
		Entry("minute", func(c *internal.Config) { c.Reminder.Minute = -1 }, "minute -1"),
		Entry("weekday", func(c *internal.Config) { c.Reminder.Weekdays = []int{7} }, "weekday 7"),
		Entry("timezone", func(c *internal.Config) { c.Reminder.Timezone = "Nowhere/City" }, "invalid timezone"),
		Entry("sql dsn", func(c *internal.Config) { c.Storage.Driver = internal.StorageDriverPostgres }, "dsn is required"),
		Entry("redis addr", func(c *internal.Config) { c.Storage.Driver = internal.StorageDriverRedis }, "redis_addr"),
		Entry("driver", func(c *internal.Config) { c.Storage.Driver = "ftp" }, "unknown driver"),
		Entry("log format", func(c *internal.Config) { c.Logging.Format = "xml" }, "unknown format"),
	)

	It("should split allowed origins", func() {
		cfg.Server.AllowedOrigins = "https://a.example, https://b.example ,"
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://a.example", "https://b.example"}))
	})

	It("should read admins and schedule from the environment", func() {
		for k, v := range map[string]string{
			"ADMIN_IDS":               "699229724, 924261386,oops",
			"REMINDER_WEEKDAYS":       "1,3",
			"REMINDER_HOUR":           "10",
			"REMINDER_MINUTE":         "15",
			"NOTIFY_DELIVERY_TIMEOUT": "3s",
		} {
			Expect(os.Setenv(k, v)).To(Succeed())
			DeferCleanup(os.Unsetenv, k)
		}

		env := internal.LoadConfigFromEnv()
		Expect(env.Admin.IDs).To(Equal([]int64{699229724, 924261386}))
		Expect(env.Reminder.CronSpec()).To(Equal("15 10 * * 1,3"))
		Expect(env.Notify.DeliveryTimeout).To(Equal(3 * time.Second))
		Expect(env.Validate()).To(Succeed())
	})

	It("should accept midnight from the environment", func() {
		for _, k := range []string{"REMINDER_HOUR", "REMINDER_MINUTE"} {
			Expect(os.Setenv(k, "0")).To(Succeed())
			DeferCleanup(os.Unsetenv, k)
		}

		Expect(internal.LoadConfigFromEnv().Reminder.CronSpec()).To(Equal("0 0 * * 1,2,3,4,5"))
	})
})

var _ = Describe("AdminSet", func() {
	It("should answer membership and list ids in order", func() {
		admins := internal.NewAdminSet([]int64{924261386, 699229724, 924261386})
		Expect(admins.Contains(699229724)).To(BeTrue())
		Expect(admins.Contains(1)).To(BeFalse())
		Expect(admins.IDs()).To(Equal([]int64{699229724, 924261386}))
		Expect(admins.Len()).To(Equal(2))
	})
})

var _ = Describe("AppError", func() {
	It("should not mutate sentinels when adding a cause", func() {
		wrapped := internal.ErrNoReportData.WithCause(errors.New("empty ledger"))

		Expect(internal.ErrNoReportData.Cause).To(BeNil())
		Expect(errors.Is(wrapped, internal.ErrNoReportData)).To(BeTrue())
		Expect(errors.Is(fmt.Errorf("export: %w", wrapped), internal.ErrNoReportData)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrProjectNotFound)).To(BeFalse())
	})

	It("should map onto an HTTP response without the cause", func() {
		status, body := internal.NewInternalError("internal server error", errors.New("secret")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))

		resp, ok := body.(internal.Response)
		Expect(ok).To(BeTrue())
		data, err := resp.Error.MarshalJSON()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("secret"))
	})

	It("should surface the first field message", func() {
		err := internal.NewValidationFieldError("format", "format must be csv or xlsx", internal.ErrCodeInvalidExport)
		Expect(err.Error()).To(Equal("format must be csv or xlsx"))
		Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
