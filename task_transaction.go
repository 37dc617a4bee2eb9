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

	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/internal/taskerror"
	"github.com/clearline-finance/clearline/model"
)

// TransactionTask owns staging entries in TRANSACTION mode: straight-through
// entries posted to the ledger without a counterpart confirmation.
type TransactionTask struct {
	baseTask
	engine ReconEngine
}

// NewTransactionTask is the decide factory for TransactionTask. It declines
// without error when the staging entry is missing or belongs to another mode.
func NewTransactionTask(ctx context.Context, deps *TaskDeps, record *model.ProcessTracker, payload *model.TaskPayload) (Task, error) {
	ref, err := deps.Datasource.GetStagingEntryRef(ctx, payload.StagingEntryID)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.ProcessingMode != model.ProcessingModeTransaction {
		return nil, nil
	}

	entry, err := deps.Datasource.GetStagingEntryWithAccount(ctx, payload.StagingEntryID)
	if err != nil {
		return nil, err
	}

	return &TransactionTask{
		baseTask: baseTask{record: record, entry: entry, datasource: deps.Datasource},
		engine:   deps.Engine,
	}, nil
}

// Validate checks the domain preconditions in order; the first failure wins.
func (t *TransactionTask) Validate(ctx context.Context) error {
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

	if t.entry.Currency != t.entry.Account.Currency {
		// The one validation rule with a side effect: flag the entry for a
		// human before reporting the mismatch. The flag write is best-effort.
		t.flagForManualReview(ctx, fmt.Sprintf("Currency mismatch: staging entry is %s but account is %s",
			t.entry.Currency, t.entry.Account.Currency), map[string]interface{}{
			"staging_entry_currency": t.entry.Currency,
			"account_currency":       t.entry.Account.Currency,
		})
		return taskerror.NewValidationError(fmt.Sprintf("Currency mismatch: staging entry is %s but account is %s",
			t.entry.Currency, t.entry.Account.Currency), map[string]interface{}{
			"staging_entry_id":       t.entry.StagingEntryID,
			"staging_entry_currency": t.entry.Currency,
			"account_currency":       t.entry.Account.Currency,
		})
	}

	return nil
}

// Run re-validates, then delegates to the reconciliation engine. On success
// the staging entry is marked PROCESSED best-effort.
func (t *TransactionTask) Run(ctx context.Context) (interface{}, error) {
	if err := t.Validate(ctx); err != nil {
		return nil, err
	}

	result, err := t.engine.ProcessStagingEntryWithRecon(ctx, t.entry, t.entry.Account.MerchantID)
	if err != nil {
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
