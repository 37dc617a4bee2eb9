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
package model

import (
	"encoding/json"
	"time"
)

// Task statuses for a queued unit of work.
const (
	TaskStatusPending    = "PENDING"
	TaskStatusProcessing = "PROCESSING"
	TaskStatusCompleted  = "COMPLETED"
	TaskStatusFailed     = "FAILED"
	// TaskStatusRetry is reserved in the schema. Nothing in the delegator
	// produces it; re-queueing a FAILED record is an operator action.
	TaskStatusRetry = "RETRY"
)

// TaskTypeProcessStagingEntry is the only task type currently queued.
const TaskTypeProcessStagingEntry = "PROCESS_STAGING_ENTRY"

// ProcessTracker is a persisted queue record describing one unit of work.
// Records are append-only: they are created by the ingestion flow, mutated
// only by the delegator, and never deleted.
type ProcessTracker struct {
	ID                  int64           `json:"-"`
	TaskID              string          `json:"task_id"`
	TaskType            string          `json:"task_type"`
	Payload             json.RawMessage `json:"payload"`
	Status              string          `json:"status"`
	Attempts            int             `json:"attempts"`
	LastError           string          `json:"last_error,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ProcessingStartedAt *time.Time      `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
}

// TaskPayload is the parsed form of a ProcessTracker payload.
type TaskPayload struct {
	StagingEntryID string `json:"staging_entry_id"`
}

// ParseTaskPayload decodes a raw queue payload. A payload that is not a JSON
// object is an error; a JSON object without staging_entry_id parses to an
// empty StagingEntryID and is handled by dispatch.
func ParseTaskPayload(raw json.RawMessage) (*TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
