package models

// ProjectTask is a unit of work assignable under one or more projects.
type ProjectTask struct {
	Entity
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

func (t *ProjectTask) IsEmpty() bool {
	return t.ID == IDNone || t.Name == ""
}

func (t *ProjectTask) String() string {
	return t.Name
}
