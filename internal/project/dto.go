package project

import (
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/common/validation"
)

type CreateProjectDTO struct {
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

// Normalize trims both fields and upper-cases the abbreviation, the way the
// admin panel always stored them.
func (dto *CreateProjectDTO) Normalize() {
	dto.Abbr = strings.ToUpper(strings.TrimSpace(dto.Abbr))
	dto.Full = strings.TrimSpace(dto.Full)
}

func (dto CreateProjectDTO) Validate() *internal.AppError {
	return validation.ValidateProjectFields(dto.Abbr, dto.Full)
}

type AssignProjectsDTO struct {
	Projects []string `json:"projects"`
}

type ProjectsResponse struct {
	Projects    []Project `json:"projects"`
	AllProjects []Project `json:"all_projects"`
}

type MutationResponse struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Project *Project `json:"project,omitempty"`
}

// AssignmentsResponse lists users with an explicit assignment in ascending
// id order next to the assignments themselves.
type AssignmentsResponse struct {
	Users       []int64            `json:"users"`
	Assignments map[int64][]string `json:"assignments"`
}

type UserProjectsResponse struct {
	UserID   int64     `json:"user_id"`
	Projects []Project `json:"projects"`
}
