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

package clearline

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/database"
	"github.com/clearline-finance/clearline/model"
)

// ErrInvalidTaskPayload marks a queue record whose payload is not a JSON
// object. It is a distinct failure from "no handler found": the record is
// malformed, not merely unclaimed by any variant.
var ErrInvalidTaskPayload = errors.New("task payload is not a valid JSON object")

// TaskDeps bundles the collaborators a task variant needs to build a
// ready-to-run task instance.
type TaskDeps struct {
	Datasource database.IDataSource
	Engine     ReconEngine
}

// DecideFunc inspects a claimed queue record and either returns a
// ready-to-run task instance or nil to decline. An error is treated by the
// manager as a decline, never as a fatal dispatch failure.
type DecideFunc func(ctx context.Context, deps *TaskDeps, record *model.ProcessTracker, payload *model.TaskPayload) (Task, error)

// TaskManager holds the ordered list of registered task variants and finds
// the first one that accepts a given queue record.
type TaskManager struct {
	variants []DecideFunc
}

func NewTaskManager() *TaskManager {
	return &TaskManager{}
}

// RegisterTaskClass appends a variant to the dispatch chain. Registration
// order is consultation order.
func (m *TaskManager) RegisterTaskClass(decide DecideFunc) {
	m.variants = append(m.variants, decide)
}

// FindHandler parses the record payload once, then consults each variant in
// registration order. The first variant that returns a task wins; a variant
// that errors is logged as a warning and skipped. Returns nil, nil when no
// variant accepts the record.
func (m *TaskManager) FindHandler(ctx context.Context, deps *TaskDeps, record *model.ProcessTracker) (Task, error) {
	payload, err := model.ParseTaskPayload(record.Payload)
	if err != nil {
		return nil, ErrInvalidTaskPayload
	}
	if payload.StagingEntryID == "" {
		logrus.Warnf("task %s payload has no staging_entry_id", record.TaskID)
		return nil, nil
	}

	for _, decide := range m.variants {
		task, err := decide(ctx, deps, record, payload)
		if err != nil {
			logrus.Warnf("task variant declined %s with error: %v", record.TaskID, err)
			continue
		}
		if task != nil {
			return task, nil
		}
	}

	return nil, nil
}
