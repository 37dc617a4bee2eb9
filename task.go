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

	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/database"
	"github.com/clearline-finance/clearline/internal/taskerror"
	"github.com/clearline-finance/clearline/model"
)

// Task is the two-method contract every concrete task variant implements.
// Both methods return typed errors from the taskerror package for all
// expected failure paths; they never panic for domain failures.
type Task interface {
	Validate(ctx context.Context) error
	Run(ctx context.Context) (interface{}, error)
}

// RunWithValidation enforces the validate-before-run rule: validation runs
// first and short-circuits Run on failure, propagating the same error.
func RunWithValidation(ctx context.Context, task Task) (interface{}, error) {
	if err := task.Validate(ctx); err != nil {
		return nil, err
	}
	return task.Run(ctx)
}

// baseTask carries the state shared by all task variants: the claimed queue
// record, the staging entry it points at, and the datasource used for status
// writes.
type baseTask struct {
	record     *model.ProcessTracker
	entry      *model.StagingEntryWithAccount
	datasource database.IDataSource
}

// checkInitialized guards against a task instance being run without its
// staging entry loaded. This is an internal invariant, never expected in
// normal operation.
func (t *baseTask) checkInitialized() error {
	if t.entry == nil {
		return taskerror.NewProcessingError("Task not properly initialized: staging entry missing", map[string]interface{}{
			"task_id": t.record.TaskID,
		})
	}
	return nil
}

// updateStagingEntry transitions the staging entry's status and merges
// metadata, returning a typed error instead of panicking on store failure.
func (t *baseTask) updateStagingEntry(ctx context.Context, status string, metaData map[string]interface{}) error {
	err := t.datasource.UpdateStagingEntryStatus(ctx, t.entry.StagingEntryID, status, metaData)
	if err != nil {
		return taskerror.NewProcessingError("Failed to update staging entry", map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
			"status":           status,
			"error":            err.Error(),
		})
	}
	return nil
}

// flagForManualReview marks the staging entry NEEDS_MANUAL_REVIEW with a
// human-readable reason. Best-effort: a failed flag write is logged, not
// propagated, so validation still reports its own error.
func (t *baseTask) flagForManualReview(ctx context.Context, reason string, metaData map[string]interface{}) {
	if metaData == nil {
		metaData = map[string]interface{}{}
	}
	metaData["manual_review_reason"] = reason
	if err := t.updateStagingEntry(ctx, model.StagingStatusNeedsManualReview, metaData); err != nil {
		logrus.Warnf("failed to flag staging entry %s for manual review: %v", t.entry.StagingEntryID, err)
	}
}
