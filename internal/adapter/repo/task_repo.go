package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/sqlinline"
)

// TaskRepositoryPG persists tasks in PostgreSQL.
type TaskRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewTaskRepository constructs a TaskRepositoryPG.
func NewTaskRepository(sql infra.SQLExecutor) *TaskRepositoryPG {
	return &TaskRepositoryPG{sql: sql}
}

// Create inserts a queued task with zero progress.
func (r *TaskRepositoryPG) Create(ctx context.Context, userID string, taskType domain.TaskType) (*domain.Task, error) {
	task, err := scanTask(r.sql.QueryRow(ctx, sqlinline.QInsertTask, userID, string(taskType)))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// Update applies the non-nil fields of upd. Terminal tasks are never modified
// and yield domain.ErrTaskClosed.
func (r *TaskRepositoryPG) Update(ctx context.Context, id string, upd domain.TaskUpdate) error {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	var result any
	if len(upd.Result) > 0 {
		result = string(upd.Result)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateTask, id, status, upd.Progress, result, upd.Error)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskClosed
	}
	return nil
}

// GetByID fetches a task snapshot.
func (r *TaskRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return scanTask(r.sql.QueryRow(ctx, sqlinline.QSelectTaskByID, id))
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t          domain.Task
		taskType   string
		taskStatus string
		result     []byte
	)
	if err := row.Scan(&t.ID, &t.UserID, &taskType, &taskStatus, &t.Progress, &result, &t.Error, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.Type = domain.TaskType(taskType)
	t.Status = domain.TaskStatus(taskStatus)
	if len(result) > 0 {
		t.Result = result
	}
	return &t, nil
}

var _ domain.TaskRepository = (*TaskRepositoryPG)(nil)
