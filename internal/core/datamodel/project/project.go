package project

type Project struct {
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

func NewCatalog() []Project {
	return []Project{}
}

// Assignments maps a decimal user id to the abbreviations visible to that user.
type Assignments map[string][]string

func NewAssignments() Assignments {
	return Assignments{}
}
