package models

// Preference is one client-side setting row (started timer record,
// favorite project/task, signed-in user). Values are JSON or plain
// strings keyed by name.
type Preference struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"size:2000" json:"value"`
}

// Preference keys.
const (
	PrefStartedRecord   = "timer.started"
	PrefFavoriteProject = "favorite.project"
	PrefFavoriteTask    = "favorite.task"
	PrefUser            = "auth.user"
)
