package local

import (
	"context"
	"encoding/json"
	"strconv"

	"worktrack/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Client-side preferences live in the same cache database as the
// scraped entities, one row per key.

func (d *DataSource) getPreference(ctx context.Context, key string) (string, error) {
	var pref models.Preference
	err := d.db.WithContext(ctx).Where("key = ?", key).First(&pref).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

func (d *DataSource) setPreference(ctx context.Context, key, value string) error {
	pref := models.Preference{Key: key, Value: value}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&pref).Error
}

func (d *DataSource) deletePreference(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Preference{}).Error
}

// StartedRecord returns the running timer record, or nil when no timer
// is started.
func (d *DataSource) StartedRecord(ctx context.Context) (*models.TimeRecord, error) {
	value, err := d.getPreference(ctx, models.PrefStartedRecord)
	if err != nil || value == "" {
		return nil, err
	}
	var record models.TimeRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SetStartedRecord stores the running timer record; nil clears it.
func (d *DataSource) SetStartedRecord(ctx context.Context, record *models.TimeRecord) error {
	if record == nil {
		return d.deletePreference(ctx, models.PrefStartedRecord)
	}
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return d.setPreference(ctx, models.PrefStartedRecord, string(value))
}

// User returns the signed-in user, or nil when nobody signed in yet.
func (d *DataSource) User(ctx context.Context) (*models.User, error) {
	value, err := d.getPreference(ctx, models.PrefUser)
	if err != nil || value == "" {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DataSource) SetUser(ctx context.Context, user models.User) error {
	value, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return d.setPreference(ctx, models.PrefUser, string(value))
}

// Favorite project/task feed the form defaults for new records.

func (d *DataSource) FavoriteProject(ctx context.Context) (int64, error) {
	return d.getIDPreference(ctx, models.PrefFavoriteProject)
}

func (d *DataSource) SetFavoriteProject(ctx context.Context, projectID int64) error {
	return d.setPreference(ctx, models.PrefFavoriteProject, strconv.FormatInt(projectID, 10))
}

func (d *DataSource) FavoriteTask(ctx context.Context) (int64, error) {
	return d.getIDPreference(ctx, models.PrefFavoriteTask)
}

func (d *DataSource) SetFavoriteTask(ctx context.Context, taskID int64) error {
	return d.setPreference(ctx, models.PrefFavoriteTask, strconv.FormatInt(taskID, 10))
}

func (d *DataSource) getIDPreference(ctx context.Context, key string) (int64, error) {
	value, err := d.getPreference(ctx, key)
	if err != nil || value == "" {
		return models.IDNone, err
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return models.IDNone, nil
	}
	return id, nil
}
