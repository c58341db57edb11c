package validation_test

import (
	"strings"
	"testing"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("Validation", func() {
	It("should collect every failing field", func() {
		err := validation.ValidateProjectFields(" ", "")
		Expect(err).NotTo(BeNil())

		details, ok := err.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
		Expect(err.GetDetailedMessage()).To(Equal("abbr is required; full is required"))
	})

	It("should count characters rather than bytes", func() {
		Expect(validation.ValidateProjectFields(strings.Repeat("Ж", 32), "Проект")).To(BeNil())
		Expect(validation.ValidateProjectFields(strings.Repeat("Ж", 33), "Проект")).NotTo(BeNil())
	})

	It("should accept a registered username", func() {
		Expect(validation.ValidateUsername("Иван")).To(BeNil())
		Expect(validation.ValidateUsername("")).NotTo(BeNil())
	})

	It("should restrict export formats", func() {
		Expect(validation.ValidateExportFormat("csv", "csv", "xlsx")).To(BeNil())

		err := validation.ValidateExportFormat("pdf", "csv", "xlsx")
		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(Equal("format must be one of csv, xlsx"))
		Expect(err.Details.(internal.ValidationErrors).Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidExport)))
	})
})
