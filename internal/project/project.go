package project

import (
	"strings"

	projectDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/project"
)

type Project struct {
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

// DefaultCatalog is materialized the first time an empty catalog is read.
func DefaultCatalog() []Project {
	return []Project{
		{Abbr: "РС", Full: "Разработка сайта"},
		{Abbr: "МРК", Full: "Маркетинг"},
		{Abbr: "КП", Full: "Клиентская поддержка"},
	}
}

// Collides reports whether either field matches other, ignoring case.
func (p Project) Collides(abbr, full string) bool {
	return strings.EqualFold(p.Abbr, abbr) || strings.EqualFold(p.Full, full)
}

func ToDataModel(p Project) projectDatamodel.Project {
	return projectDatamodel.Project{Abbr: p.Abbr, Full: p.Full}
}

func FromDataModel(p projectDatamodel.Project) Project {
	return Project{Abbr: p.Abbr, Full: p.Full}
}

func toDataModels(projects []Project) []projectDatamodel.Project {
	out := make([]projectDatamodel.Project, len(projects))
	for i, p := range projects {
		out[i] = ToDataModel(p)
	}
	return out
}

func fromDataModels(projects []projectDatamodel.Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = FromDataModel(p)
	}
	return out
}
