package models

import "sort"

// Project groups tasks that time can be billed against.
type Project struct {
	Entity
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	// TaskIDs are the ids of the tasks assignable under this project,
	// scraped from the page script. They are cached as ProjectTaskKey
	// rows, not as a column.
	TaskIDs []int64 `gorm:"-" json:"task_ids,omitempty"`
}

func (p *Project) IsEmpty() bool {
	return p.ID == IDNone || p.Name == ""
}

func (p *Project) AddTask(taskID int64) {
	for _, id := range p.TaskIDs {
		if id == taskID {
			return
		}
	}
	p.TaskIDs = append(p.TaskIDs, taskID)
}

func (p *Project) AddTasks(taskIDs []int64) {
	for _, id := range taskIDs {
		p.AddTask(id)
	}
}

func (p *Project) ClearTasks() {
	p.TaskIDs = nil
}

func (p *Project) HasTask(taskID int64) bool {
	for _, id := range p.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Keys materializes the project's task associations as join rows.
// The keys always carry the project's current id, so reassigning the id
// cannot leave stale association rows behind.
func (p *Project) Keys() []ProjectTaskKey {
	keys := make([]ProjectTaskKey, 0, len(p.TaskIDs))
	for _, taskID := range p.TaskIDs {
		keys = append(keys, ProjectTaskKey{ProjectID: p.ID, TaskID: taskID})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].TaskID < keys[j].TaskID })
	return keys
}

func (p *Project) String() string {
	return p.Name
}
