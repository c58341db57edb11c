package report

import (
	"strings"
)

// SubmitReportDTO accepts either a list of project lines or the single
// project/hours pair older clients send.
type SubmitReportDTO struct {
	Projects []Item   `json:"projects"`
	Project  string   `json:"project"`
	Hours    *float64 `json:"hours"`
	Comments string   `json:"comments"`
}

func (dto SubmitReportDTO) Items() []Item {
	if len(dto.Projects) > 0 {
		return dto.Projects
	}
	if strings.TrimSpace(dto.Project) == "" {
		return nil
	}
	item := Item{Project: dto.Project}
	if dto.Hours != nil {
		item.Hours = *dto.Hours
	}
	return []Item{item}
}

type SubmitReportResponse struct {
	OK         bool     `json:"ok"`
	Reports    []Report `json:"reports"`
	TotalHours float64  `json:"total_hours"`
}

type ReportsResponse struct {
	Reports []Report `json:"reports"`
	Days    int      `json:"days"`
}

type DeleteReportsResponse struct {
	OK      bool  `json:"ok"`
	UserID  int64 `json:"user_id"`
	Removed int   `json:"removed"`
}
