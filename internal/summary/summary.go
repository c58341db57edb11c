package summary

import (
	"github.com/frahmantamala/timesheet/internal/project"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RecentLimit caps the admin activity feed.
const RecentLimit = 30

const (
	unknownEmployee = "?"
	unknownProject  = "-"
)

// Hours maps a name to summed hours in first-seen order and marshals as a
// JSON object that keeps that order.
type Hours = *orderedmap.OrderedMap[string, float64]

func NewHours() Hours {
	return orderedmap.New[string, float64]()
}

type UserStats struct {
	TotalHours   float64 `json:"total_hours"`
	TotalReports int     `json:"total_reports"`
	ByProject    Hours   `json:"by_project"`
}

type Employee struct {
	Name     string  `json:"name"`
	Hours    float64 `json:"hours"`
	Reports  int     `json:"reports"`
	Projects Hours   `json:"projects"`
}

type RecentReport struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Employee string  `json:"employee"`
	Project  string  `json:"project"`
	Hours    float64 `json:"hours"`
	Comment  string  `json:"comment"`
}

type AdminStats struct {
	TotalHours    float64        `json:"total_hours"`
	TotalReports  int            `json:"total_reports"`
	Employees     []*Employee    `json:"employees"`
	Projects      Hours          `json:"projects"`
	RecentReports []RecentReport `json:"recent_reports"`
}

type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Payload is everything the client needs to render its dashboard.
type Payload struct {
	Admin       bool              `json:"admin"`
	UserID      int64             `json:"user_id"`
	Username    string            `json:"username"`
	Projects    []project.Project `json:"projects"`
	AllProjects []project.Project `json:"all_projects"`
	AllUsers    []UserRef         `json:"all_users"`
	UserStats   UserStats         `json:"user_stats"`
	AdminStats  *AdminStats       `json:"admin_stats"`
}
