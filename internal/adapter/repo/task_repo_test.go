package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"dreamvisualizer/internal/domain"
)

func TestTaskRepositoryCreate(t *testing.T) {
	now := time.Now().UTC()
	exec := &stubExecutor{row: valuesRow("t-1", "u-1", "image", "queued", float64(0), nil, "", now, now)}
	repo := NewTaskRepository(exec)

	task, err := repo.Create(context.Background(), "u-1", domain.TaskTypeImage)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Status != domain.TaskStatusQueued || task.Progress != 0 || task.Type != domain.TaskTypeImage {
		t.Fatalf("Create() = %+v", task)
	}
	if task.Result != nil {
		t.Fatalf("Result = %s, want nil", task.Result)
	}
	if got := exec.calls[0].args[1]; got != "image" {
		t.Fatalf("type arg = %v, want image", got)
	}
}

func TestTaskRepositoryUpdateArgs(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewTaskRepository(exec)

	status := domain.TaskStatusComplete
	progress := 100.0
	err := repo.Update(context.Background(), "t-1", domain.TaskUpdate{
		Status:   &status,
		Progress: &progress,
		Result:   json.RawMessage(`{"images":[]}`),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	args := exec.calls[0].args
	if s, ok := args[1].(*string); !ok || *s != "complete" {
		t.Fatalf("status arg = %#v", args[1])
	}
	if p, ok := args[2].(*float64); !ok || *p != 100 {
		t.Fatalf("progress arg = %#v", args[2])
	}
	if args[3] != `{"images":[]}` {
		t.Fatalf("result arg = %#v", args[3])
	}
	if e, ok := args[4].(*string); !ok || e != nil {
		t.Fatalf("error arg = %#v, want nil pointer", args[4])
	}
}

func TestTaskRepositoryUpdateTerminal(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 0")}
	repo := NewTaskRepository(exec)

	progress := 50.0
	err := repo.Update(context.Background(), "t-1", domain.TaskUpdate{Progress: &progress})
	if !errors.Is(err, domain.ErrTaskClosed) {
		t.Fatalf("Update() error = %v, want ErrTaskClosed", err)
	}
}

func TestTaskRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewTaskRepository(&stubExecutor{})

	if _, err := repo.GetByID(context.Background(), "t-404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}
