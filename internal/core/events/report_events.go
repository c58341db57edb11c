package events

const (
	EventTypeReportSubmitted = "report.submitted"
	EventTypeReportsPurged   = "reports.purged"
)

type SubmittedItem struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
}

// ReportSubmittedEvent is one submission: every line shares the comment
// and the date.
type ReportSubmittedEvent struct {
	BaseEvent
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	Items    []SubmittedItem `json:"items"`
	Comment  string          `json:"comment"`
	Date     string          `json:"date"`
}

func NewReportSubmittedEvent(userID int64, username string, items []SubmittedItem, comment, date string) *ReportSubmittedEvent {
	return &ReportSubmittedEvent{
		BaseEvent: newBase(EventTypeReportSubmitted, map[string]any{
			"user_id":  userID,
			"username": username,
			"items":    items,
			"comment":  comment,
			"date":     date,
		}),
		UserID:   userID,
		Username: username,
		Items:    items,
		Comment:  comment,
		Date:     date,
	}
}

func (e *ReportSubmittedEvent) TotalHours() float64 {
	var total float64
	for _, item := range e.Items {
		total += item.Hours
	}
	return total
}

type ReportsPurgedEvent struct {
	BaseEvent
	UserID  int64 `json:"user_id"`
	Removed int   `json:"removed"`
}

func NewReportsPurgedEvent(userID int64, removed int) *ReportsPurgedEvent {
	return &ReportsPurgedEvent{
		BaseEvent: newBase(EventTypeReportsPurged, map[string]any{
			"user_id": userID,
			"removed": removed,
		}),
		UserID:  userID,
		Removed: removed,
	}
}
