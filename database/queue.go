/*
Copyright 2025 Clearline Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

// CreateTask enqueues a new process tracker in PENDING status.
func (d Datasource) CreateTask(ctx context.Context, tracker *model.ProcessTracker) (*model.ProcessTracker, error) {
	ctx, span := otel.Tracer("Queue").Start(ctx, "Saving task to db")
	defer span.End()

	tracker.CreatedAt = time.Now()
	tracker.UpdatedAt = tracker.CreatedAt
	if tracker.Status == "" {
		tracker.Status = model.TaskStatusPending
	}

	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO clearline.process_trackers (task_id, task_type, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING id
	`, tracker.TaskID, tracker.TaskType, tracker.Payload, tracker.Status, tracker.CreatedAt, tracker.UpdatedAt).Scan(&tracker.ID)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Task with this ID already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create task", err)
	}

	return tracker, nil
}

// ClaimNextPendingTask atomically claims the oldest pending task of the given type.
// The claim, the PROCESSING transition and the attempt increment are a single
// statement so that concurrent workers never pick up the same task. Returns
// nil, nil when the queue has no pending tasks of this type.
func (d Datasource) ClaimNextPendingTask(ctx context.Context, taskType string) (*model.ProcessTracker, error) {
	ctx, span := otel.Tracer("Queue").Start(ctx, "Claiming next pending task")
	defer span.End()

	tracker := &model.ProcessTracker{}
	var lastError sql.NullString
	err := d.Conn.QueryRowContext(ctx, `
		UPDATE clearline.process_trackers
		SET status = $1,
			attempts = attempts + 1,
			processing_started_at = NOW(),
			updated_at = NOW()
		WHERE task_id = (
			SELECT task_id
			FROM clearline.process_trackers
			WHERE status = $2 AND task_type = $3
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, task_id, task_type, payload, status, attempts, last_error, created_at, updated_at, processing_started_at, completed_at
	`, model.TaskStatusProcessing, model.TaskStatusPending, taskType).Scan(
		&tracker.ID,
		&tracker.TaskID,
		&tracker.TaskType,
		&tracker.Payload,
		&tracker.Status,
		&tracker.Attempts,
		&lastError,
		&tracker.CreatedAt,
		&tracker.UpdatedAt,
		&tracker.ProcessingStartedAt,
		&tracker.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to claim pending task", err)
	}
	tracker.LastError = lastError.String

	return tracker, nil
}

// UpdateTaskStatus records the outcome of a claimed task. An empty lastError
// leaves the previous error untouched; a terminal COMPLETED status also stamps
// completed_at.
func (d Datasource) UpdateTaskStatus(ctx context.Context, taskID string, status string, lastError string) error {
	ctx, span := otel.Tracer("Queue").Start(ctx, "Updating task status")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE clearline.process_trackers
		SET status = $2,
			last_error = CASE WHEN $3 <> '' THEN $3 ELSE last_error END,
			completed_at = CASE WHEN $2 = $4 THEN NOW() ELSE completed_at END,
			updated_at = NOW()
		WHERE task_id = $1
	`, taskID, status, lastError, model.TaskStatusCompleted)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update task status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Task not found", nil)
	}

	return nil
}

// GetTask retrieves a process tracker by its task ID.
func (d Datasource) GetTask(ctx context.Context, taskID string) (*model.ProcessTracker, error) {
	ctx, span := otel.Tracer("Queue").Start(ctx, "Fetching task from db")
	defer span.End()

	tracker := &model.ProcessTracker{}
	var lastError sql.NullString
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, task_id, task_type, payload, status, attempts, last_error, created_at, updated_at, processing_started_at, completed_at
		FROM clearline.process_trackers
		WHERE task_id = $1
	`, taskID).Scan(
		&tracker.ID,
		&tracker.TaskID,
		&tracker.TaskType,
		&tracker.Payload,
		&tracker.Status,
		&tracker.Attempts,
		&lastError,
		&tracker.CreatedAt,
		&tracker.UpdatedAt,
		&tracker.ProcessingStartedAt,
		&tracker.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Task not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve task", err)
	}
	tracker.LastError = lastError.String

	return tracker, nil
}

// GetTasksByStatus retrieves up to limit process trackers in the given status,
// oldest first.
func (d Datasource) GetTasksByStatus(ctx context.Context, status string, limit int) ([]*model.ProcessTracker, error) {
	ctx, span := otel.Tracer("Queue").Start(ctx, "Fetching tasks by status")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, task_id, task_type, payload, status, attempts, last_error, created_at, updated_at, processing_started_at, completed_at
		FROM clearline.process_trackers
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tasks", err)
	}
	defer func() { _ = rows.Close() }()

	var trackers []*model.ProcessTracker
	for rows.Next() {
		tracker := &model.ProcessTracker{}
		var lastError sql.NullString
		err := rows.Scan(
			&tracker.ID,
			&tracker.TaskID,
			&tracker.TaskType,
			&tracker.Payload,
			&tracker.Status,
			&tracker.Attempts,
			&lastError,
			&tracker.CreatedAt,
			&tracker.UpdatedAt,
			&tracker.ProcessingStartedAt,
			&tracker.CompletedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan task", err)
		}
		tracker.LastError = lastError.String
		trackers = append(trackers, tracker)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over tasks", err)
	}

	return trackers, nil
}
