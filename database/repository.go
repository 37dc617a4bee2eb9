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

	"github.com/clearline-finance/clearline/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	queue        // Interface for task queue operations
	stagingEntry // Interface for staging entry operations
	account      // Interface for account operations
	reconRule    // Interface for reconciliation rule operations
}

// queue defines methods for the persisted task queue.
type queue interface {
	CreateTask(ctx context.Context, tracker *model.ProcessTracker) (*model.ProcessTracker, error)  // Enqueues a new task
	ClaimNextPendingTask(ctx context.Context, taskType string) (*model.ProcessTracker, error)      // Atomically claims the oldest pending task of a type
	UpdateTaskStatus(ctx context.Context, taskID string, status string, lastError string) error    // Updates the status of a claimed task
	GetTask(ctx context.Context, taskID string) (*model.ProcessTracker, error)                     // Retrieves a task by ID
	GetTasksByStatus(ctx context.Context, status string, limit int) ([]*model.ProcessTracker, error) // Retrieves tasks in a given status
}

// stagingEntry defines methods for handling staging entries.
type stagingEntry interface {
	CreateStagingEntry(ctx context.Context, entry *model.StagingEntry) (*model.StagingEntry, error)                // Records a new staging entry
	GetStagingEntryRef(ctx context.Context, id string) (*model.StagingEntryRef, error)                             // Retrieves the lightweight routing view of a staging entry
	GetStagingEntryWithAccount(ctx context.Context, id string) (*model.StagingEntryWithAccount, error)             // Retrieves a staging entry joined with its account
	UpdateStagingEntryStatus(ctx context.Context, id string, status string, metaData map[string]interface{}) error // Updates status and merges metadata
}

// account defines methods for handling accounts.
type account interface {
	GetAccount(ctx context.Context, id string) (*model.Account, error) // Retrieves an account by ID
}

// reconRule defines methods for handling reconciliation rules.
type reconRule interface {
	CreateReconRule(ctx context.Context, rule *model.ReconRule) (*model.ReconRule, error)        // Records a new reconciliation rule
	GetReconRulesByMerchant(ctx context.Context, merchantID string) ([]*model.ReconRule, error)  // Retrieves rules for a merchant
	ReconRuleExistsForAccount(ctx context.Context, merchantID, accountID string) (bool, error)   // Checks whether any rule covers an account
}
