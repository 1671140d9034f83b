package models

// ProjectTaskKey is the join row expressing that a task is assignable
// under a project. The server exposes no stable id for the association,
// so its identity is the (project id, task id) pair.
type ProjectTaskKey struct {
	DBID      uint  `gorm:"column:db_id;primaryKey" json:"-"`
	ProjectID int64 `gorm:"column:project_id;index:idx_project_task" json:"project_id"`
	TaskID    int64 `gorm:"column:task_id;index:idx_project_task" json:"task_id"`
}
