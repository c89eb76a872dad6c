// Package tasks runs generation pipelines in the background and tracks their
// progress in the task store.
package tasks

import (
	"encoding/json"
	"time"

	"dreamvisualizer/internal/domain"
)

// View is the API shape of a task snapshot.
type View struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Progress  float64         `json:"progress"`
	Result    json.RawMessage `json:"result"`
	Error     *string         `json:"error"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewView converts a task record.
func NewView(t *domain.Task) View {
	v := View{
		ID:        t.ID,
		Type:      string(t.Type),
		Status:    string(t.Status),
		Progress:  t.Progress,
		Result:    t.Result,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Error != "" {
		msg := t.Error
		v.Error = &msg
	}
	return v
}

// Terminal reports whether the snapshot is complete or failed.
func (v View) Terminal() bool {
	return domain.TaskStatus(v.Status).Terminal()
}

// Equal reports whether two snapshots describe the same task state.
func (v View) Equal(o View) bool {
	return v.ID == o.ID && v.Status == o.Status && v.Progress == o.Progress && v.UpdatedAt.Equal(o.UpdatedAt)
}
