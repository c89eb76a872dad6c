package domain

import (
	"encoding/json"
	"time"
)

// TaskType enumerates supported background pipelines.
type TaskType string

const (
	TaskTypeImage TaskType = "image"
	TaskTypeAudio TaskType = "audio"
	TaskTypeVideo TaskType = "video"
)

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "queued"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusFinishing TaskStatus = "finishing"
	TaskStatusComplete  TaskStatus = "complete"
	TaskStatusFailed    TaskStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusComplete || s == TaskStatusFailed
}

// Task tracks one asynchronously executed generation pipeline. It is owned by
// a single runner for its whole lifetime; readers only ever see snapshots.
type Task struct {
	ID        string
	UserID    string
	Type      TaskType
	Status    TaskStatus
	Progress  float64
	Result    json.RawMessage
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskUpdate carries the fields a runner changes in one step. Nil fields are
// left untouched.
type TaskUpdate struct {
	Status   *TaskStatus
	Progress *float64
	Result   json.RawMessage
	Error    *string
}

// ParseTaskType validates a task type string.
func ParseTaskType(v string) (TaskType, bool) {
	switch TaskType(v) {
	case TaskTypeImage, TaskTypeAudio, TaskTypeVideo:
		return TaskType(v), true
	}
	return "", false
}
