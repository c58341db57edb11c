package summary

import (
	"sort"
	"time"

	"github.com/frahmantamala/timesheet/internal/core/clock"
	"github.com/frahmantamala/timesheet/internal/report"
)

const (
	displayDate = "02.01.2006"
	displayTime = "15:04"
)

func addHours(m Hours, key string, hours float64) {
	current, _ := m.Get(key)
	m.Set(key, current+hours)
}

func projectKey(r report.Report) string {
	if r.Project == "" {
		return unknownProject
	}
	return r.Project
}

func employeeKey(r report.Report) string {
	if r.Username == "" {
		return unknownEmployee
	}
	return r.Username
}

// BuildUserStats totals the reports that belong to userID.
func BuildUserStats(reports []report.Report, userID int64) UserStats {
	stats := UserStats{ByProject: NewHours()}
	for _, r := range reports {
		if r.UserID != userID {
			continue
		}
		stats.TotalHours += r.Hours
		stats.TotalReports++
		addHours(stats.ByProject, projectKey(r), r.Hours)
	}
	return stats
}

// BuildAdminStats totals every report. Employees are grouped by the username
// captured on each report, so a renamed user shows up under both names.
func BuildAdminStats(reports []report.Report) *AdminStats {
	stats := &AdminStats{
		Employees: []*Employee{},
		Projects:  NewHours(),
	}
	byName := make(map[string]*Employee)

	for _, r := range reports {
		stats.TotalHours += r.Hours
		stats.TotalReports++
		addHours(stats.Projects, projectKey(r), r.Hours)

		name := employeeKey(r)
		emp, ok := byName[name]
		if !ok {
			emp = &Employee{Name: name, Projects: NewHours()}
			byName[name] = emp
			stats.Employees = append(stats.Employees, emp)
		}
		emp.Hours += r.Hours
		emp.Reports++
		addHours(emp.Projects, projectKey(r), r.Hours)
	}

	stats.RecentReports = RecentActivity(reports, RecentLimit)
	return stats
}

// RecentActivity returns up to limit reports, newest datetime first. Equal
// timestamps keep their ledger order.
func RecentActivity(reports []report.Report, limit int) []RecentReport {
	sorted := make([]report.Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime > sorted[j].DateTime
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RecentReport, len(sorted))
	for i, r := range sorted {
		out[i] = toRecent(r)
	}
	return out
}

func toRecent(r report.Report) RecentReport {
	recent := RecentReport{
		Date:     r.Date,
		Employee: employeeKey(r),
		Project:  projectKey(r),
		Hours:    r.Hours,
		Comment:  r.Comments,
	}
	if t, err := time.Parse(clock.DateTimeLayout, r.DateTime); err == nil {
		recent.Date = t.Format(displayDate)
		recent.Time = t.Format(displayTime)
	}
	return recent
}
