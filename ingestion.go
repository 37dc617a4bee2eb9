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
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

// IngestStagingEntry records a new staging entry and enqueues the task that
// will process it. The referenced account must exist; rejecting unknown
// accounts here keeps records for them out of the queue entirely. The entry
// is persisted first; a failed enqueue leaves a valid entry that an operator
// can re-queue via the trigger endpoint.
func (c *Clearline) IngestStagingEntry(ctx context.Context, entry *model.StagingEntry) (*model.StagingEntry, error) {
	account, err := c.datasource.GetAccount(ctx, entry.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("Account %s not found", entry.AccountID), nil)
	}

	if entry.StagingEntryID == "" {
		entry.StagingEntryID = model.GenerateUUIDWithSuffix("stg")
	}

	created, err := c.datasource.CreateStagingEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	if _, err := c.EnqueueTask(ctx, created.StagingEntryID); err != nil {
		logrus.Errorf("failed to enqueue task for staging entry %s: %v", created.StagingEntryID, err)
		return nil, err
	}

	return created, nil
}

// EnqueueTask queues a PROCESS_STAGING_ENTRY task for the given staging
// entry.
func (c *Clearline) EnqueueTask(ctx context.Context, stagingEntryID string) (*model.ProcessTracker, error) {
	payload, err := json.Marshal(model.TaskPayload{StagingEntryID: stagingEntryID})
	if err != nil {
		return nil, err
	}

	tracker := &model.ProcessTracker{
		TaskID:   model.GenerateUUIDWithSuffix("task"),
		TaskType: model.TaskTypeProcessStagingEntry,
		Payload:  payload,
		Status:   model.TaskStatusPending,
	}
	return c.datasource.CreateTask(ctx, tracker)
}

// GetTask exposes queue record lookup for the operator surface.
func (c *Clearline) GetTask(ctx context.Context, taskID string) (*model.ProcessTracker, error) {
	return c.datasource.GetTask(ctx, taskID)
}

// GetStagingEntry exposes staging entry lookup for the operator surface.
func (c *Clearline) GetStagingEntry(ctx context.Context, id string) (*model.StagingEntryWithAccount, error) {
	return c.datasource.GetStagingEntryWithAccount(ctx, id)
}

// CreateReconRule records a reconciliation rule pairing two accounts.
func (c *Clearline) CreateReconRule(ctx context.Context, rule *model.ReconRule) (*model.ReconRule, error) {
	if rule.RuleID == "" {
		rule.RuleID = model.GenerateUUIDWithSuffix("rule")
	}
	return c.datasource.CreateReconRule(ctx, rule)
}

// GetReconRules lists the reconciliation rules of a merchant.
func (c *Clearline) GetReconRules(ctx context.Context, merchantID string) ([]*model.ReconRule, error) {
	return c.datasource.GetReconRulesByMerchant(ctx, merchantID)
}
