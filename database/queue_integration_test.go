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
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-finance/clearline/model"
)

// TestClaimNextPendingTask_Contention exercises the FOR UPDATE SKIP LOCKED
// claim under real contention: with N workers racing over the same PENDING
// set, every record must be handed to exactly one claimer. Runs against the
// postgres named by CLEARLINE_TEST_DATA_SOURCE_DNS; the sqlmock tests in
// queue_test.go cover the statement shape without a live database.
func TestClaimNextPendingTask_Contention(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping queue integration test in short mode")
	}
	dsn := os.Getenv("CLEARLINE_TEST_DATA_SOURCE_DNS")
	if dsn == "" {
		t.Skip("CLEARLINE_TEST_DATA_SOURCE_DNS not set, skipping queue integration test")
	}

	db, err := ConnectDB(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	ds := Datasource{Conn: db}

	ctx := context.Background()
	const taskCount = 25
	const workers = 8

	// A per-run task type keeps this run's records out of other claimers'
	// reach, since the claim filters on task_type.
	taskType := fmt.Sprintf("CONTENTION_TEST_%d", time.Now().UnixNano())
	payload, err := json.Marshal(model.TaskPayload{StagingEntryID: "se-contention"})
	require.NoError(t, err)

	for i := 0; i < taskCount; i++ {
		_, err := ds.CreateTask(ctx, &model.ProcessTracker{
			TaskID:   fmt.Sprintf("%s_task_%d", taskType, i),
			TaskType: taskType,
			Payload:  payload,
			Status:   model.TaskStatusPending,
		})
		require.NoError(t, err, "Failed to seed task %d", i)
	}

	var mu sync.Mutex
	claimed := make(map[string]int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tracker, err := ds.ClaimNextPendingTask(ctx, taskType)
				if err != nil {
					t.Errorf("claim failed: %v", err)
					return
				}
				if tracker == nil {
					return
				}
				mu.Lock()
				claimed[tracker.TaskID]++
				mu.Unlock()

				assert.Equal(t, model.TaskStatusProcessing, tracker.Status)
				assert.Equal(t, 1, tracker.Attempts)
				assert.NotNil(t, tracker.ProcessingStartedAt)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, taskCount, "every seeded task should be claimed exactly once")
	for taskID, n := range claimed {
		assert.Equal(t, 1, n, "task %s claimed %d times", taskID, n)
	}

	// The set is drained: a further claim finds nothing.
	tracker, err := ds.ClaimNextPendingTask(ctx, taskType)
	assert.NoError(t, err)
	assert.Nil(t, tracker)
}
