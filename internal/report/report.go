package report

import (
	"time"

	"github.com/frahmantamala/timesheet/internal/core/clock"
	reportDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/report"
)

// DefaultComment is stored when a submission comes without one.
const DefaultComment = "-"

type Report struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Project  string  `json:"project"`
	Hours    float64 `json:"hours"`
	Comments string  `json:"comments"`
	Date     string  `json:"date"`
	DateTime string  `json:"datetime"`
}

// Item is one project line of a submission.
type Item struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
}

func NewReport(userID int64, username string, item Item, comments string, at time.Time) Report {
	return Report{
		UserID:   userID,
		Username: username,
		Project:  item.Project,
		Hours:    item.Hours,
		Comments: comments,
		Date:     at.Format(clock.DateLayout),
		DateTime: at.Format(clock.DateTimeLayout),
	}
}

// Timestamp parses DateTime; ok is false for legacy or hand-edited entries.
func (r Report) Timestamp() (time.Time, bool) {
	t, err := time.Parse(clock.DateTimeLayout, r.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func ToDataModel(r Report) reportDatamodel.Report {
	return reportDatamodel.Report{
		UserID:   r.UserID,
		Username: r.Username,
		Project:  r.Project,
		Hours:    reportDatamodel.Hours(r.Hours),
		Comments: r.Comments,
		Date:     r.Date,
		DateTime: r.DateTime,
	}
}

func FromDataModel(r reportDatamodel.Report) Report {
	return Report{
		UserID:   r.UserID,
		Username: r.Username,
		Project:  r.Project,
		Hours:    float64(r.Hours),
		Comments: r.Comments,
		Date:     r.Date,
		DateTime: r.DateTime,
	}
}
