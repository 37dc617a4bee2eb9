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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/internal/taskerror"
	"github.com/clearline-finance/clearline/model"
)

// MatchingTask owns staging entries in CONFIRMATION mode: entries that must
// be correlated to a counterpart via a reconciliation rule and an order_id.
type MatchingTask struct {
	baseTask
	engine ReconEngine
}

// NewMatchingTask is the decide factory for MatchingTask.
func NewMatchingTask(ctx context.Context, deps *TaskDeps, record *model.ProcessTracker, payload *model.TaskPayload) (Task, error) {
	ref, err := deps.Datasource.GetStagingEntryRef(ctx, payload.StagingEntryID)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.ProcessingMode != model.ProcessingModeConfirmation {
		return nil, nil
	}

	entry, err := deps.Datasource.GetStagingEntryWithAccount(ctx, payload.StagingEntryID)
	if err != nil {
		return nil, err
	}

	return &MatchingTask{
		baseTask: baseTask{record: record, entry: entry, datasource: deps.Datasource},
		engine:   deps.Engine,
	}, nil
}

// Validate checks the domain preconditions in order; the first failure wins.
func (t *MatchingTask) Validate(ctx context.Context) error {
	if err := t.checkInitialized(); err != nil {
		return err
	}

	if t.entry.AccountID == "" {
		return taskerror.NewValidationError("Staging entry has no account ID", map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
		})
	}

	if t.entry.Account == nil || t.entry.Account.MerchantID == "" {
		return taskerror.NewValidationError("Merchant ID not found", map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
			"account_id":       t.entry.AccountID,
		})
	}

	if _, ok := t.entry.OrderID(); !ok {
		return taskerror.NewValidationError("Staging entry metadata has no order_id", map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
		})
	}

	exists, err := t.datasource.ReconRuleExistsForAccount(ctx, t.entry.Account.MerchantID, t.entry.AccountID)
	if err != nil {
		return taskerror.NewProcessingError("Failed to look up reconciliation rules", map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
			"merchant_id":      t.entry.Account.MerchantID,
			"error":            err.Error(),
		})
	}
	if !exists {
		return taskerror.NewValidationError(fmt.Sprintf("No reconciliation rule found for account %s", t.entry.AccountID),
			map[string]interface{}{
				"staging_entry_id": t.entry.StagingEntryID,
				"merchant_id":      t.entry.Account.MerchantID,
				"account_id":       t.entry.AccountID,
			})
	}

	return nil
}

// Run re-validates, then delegates to the reconciliation engine. A no-match
// outcome is re-wrapped with the structured no_match error type so callers
// can tell "nothing matched yet" apart from "something broke".
func (t *MatchingTask) Run(ctx context.Context) (interface{}, error) {
	if err := t.Validate(ctx); err != nil {
		return nil, err
	}

	result, err := t.engine.ProcessStagingEntryWithRecon(ctx, t.entry, t.entry.Account.MerchantID)
	if err != nil {
		if errors.Is(err, ErrNoMatchFound) {
			return nil, taskerror.NewNoMatchError(fmt.Sprintf("No match found for staging entry %s",
				t.entry.StagingEntryID), map[string]interface{}{
				"staging_entry_id": t.entry.StagingEntryID,
				"task_id":          t.record.TaskID,
			})
		}
		return nil, taskerror.NewProcessingError(fmt.Sprintf("Failed to process staging entry %s: %s",
			t.entry.StagingEntryID, err.Error()), map[string]interface{}{
			"staging_entry_id": t.entry.StagingEntryID,
			"task_id":          t.record.TaskID,
		})
	}

	if err := t.updateStagingEntry(ctx, model.StagingStatusProcessed, map[string]interface{}{
		"transaction_id": result.TransactionID,
	}); err != nil {
		logrus.Warnf("failed to mark staging entry %s processed: %v", t.entry.StagingEntryID, err)
	}

	return result, nil
}
