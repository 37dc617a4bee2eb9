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
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"

	"github.com/clearline-finance/clearline/model"
)

// NoHandlerError is the terminal message stored when no registered variant
// accepts a claimed record. A missing handler is a deployment problem, not a
// transient one, so the record goes straight to FAILED.
const NoHandlerError = "No task handler found for this task type"

// drainLockKey guards against two concurrent manual drains.
const drainLockKey = "task_queue:drain_lock"

// DrainResult aggregates the outcome of a queue drain.
type DrainResult struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// ProcessSingleTask claims and processes one unit of work. It returns false
// when the queue is empty and true whenever a unit of work was attempted,
// regardless of outcome. It never panics; unexpected faults are converted
// into a FAILED status on the claimed record.
func (c *Clearline) ProcessSingleTask(ctx context.Context) bool {
	attempted, _ := c.processSingleTask(ctx)
	return attempted
}

func (c *Clearline) processSingleTask(ctx context.Context) (attempted bool, succeeded bool) {
	record, err := c.datasource.ClaimNextPendingTask(ctx, model.TaskTypeProcessStagingEntry)
	if err != nil {
		logrus.Errorf("failed to claim pending task: %v", err)
		return false, false
	}
	if record == nil {
		return false, false
	}

	// The claim already moved the record to PROCESSING. From here on the
	// record always reaches a terminal status, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("panic while processing task %s: %v", record.TaskID, r)
			c.failTask(ctx, record, fmt.Sprintf("%v", r))
			attempted, succeeded = true, false
		}
	}()

	deps := &TaskDeps{Datasource: c.datasource, Engine: c.engine}
	handler, err := c.taskManager.FindHandler(ctx, deps, record)
	if err != nil {
		c.failTask(ctx, record, err.Error())
		return true, false
	}
	if handler == nil {
		c.failTask(ctx, record, NoHandlerError)
		return true, false
	}

	if err := handler.Validate(ctx); err != nil {
		c.failTask(ctx, record, fmt.Sprintf("Validation error: %s", err.Error()))
		return true, false
	}

	result, err := handler.Run(ctx)
	if err != nil {
		c.failTask(ctx, record, fmt.Sprintf("Execution error: %s", err.Error()))
		return true, false
	}

	if err := c.datasource.UpdateTaskStatus(ctx, record.TaskID, model.TaskStatusCompleted, ""); err != nil {
		// Best-effort audit write: the work itself succeeded.
		logrus.Errorf("failed to mark task %s completed: %v", record.TaskID, err)
	}
	record.Status = model.TaskStatusCompleted
	record.CompletedAt = ptr.Time(time.Now())
	logrus.Infof("task %s completed", record.TaskID)
	go c.postTaskActions(record, model.TaskStatusCompleted, "", result)
	return true, true
}

func (c *Clearline) failTask(ctx context.Context, record *model.ProcessTracker, message string) {
	logrus.Warnf("task %s failed: %s", record.TaskID, message)
	if err := c.datasource.UpdateTaskStatus(ctx, record.TaskID, model.TaskStatusFailed, message); err != nil {
		logrus.Errorf("failed to mark task %s failed: %v", record.TaskID, err)
	}
	go c.postTaskActions(record, model.TaskStatusFailed, message, nil)
}

// DrainQueue repeatedly processes tasks until the queue is empty or the
// timeout elapses. A redis lock prevents two drains from stacking up; a
// second caller gets an immediate error instead of doubling the workers.
func (c *Clearline) DrainQueue(ctx context.Context, timeout time.Duration) DrainResult {
	start := time.Now()
	result := DrainResult{}

	if c.redis != nil {
		acquired, err := c.redis.SetNX(ctx, drainLockKey, "1", timeout).Result()
		if err != nil {
			result.Error = fmt.Sprintf("failed to acquire drain lock: %v", err)
			return result
		}
		if !acquired {
			result.Error = "a queue drain is already in progress"
			return result
		}
		defer c.redis.Del(context.WithoutCancel(ctx), drainLockKey)
	}

	deadline := start.Add(timeout)
	for time.Now().Before(deadline) {
		attempted, ok := c.processSingleTask(ctx)
		if !attempted {
			break
		}
		result.Processed++
		if ok {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	result.Duration = time.Since(start)
	if result.Processed > 0 || result.Error != "" {
		logrus.Infof("queue drain finished: processed=%d succeeded=%d failed=%d duration=%s",
			result.Processed, result.Succeeded, result.Failed, result.Duration)
	}
	return result
}
