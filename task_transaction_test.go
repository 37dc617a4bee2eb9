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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clearline-finance/clearline/database/mocks"
	"github.com/clearline-finance/clearline/internal/taskerror"
	"github.com/clearline-finance/clearline/model"
)

func newTransactionTask(entry *model.StagingEntryWithAccount, ds *mocks.MockDataSource, engine *MockReconEngine) *TransactionTask {
	return &TransactionTask{
		baseTask: baseTask{record: pendingTracker("se-1"), entry: entry, datasource: ds},
		engine:   engine,
	}
}

func TestTransactionTask_ValidateSuccess(t *testing.T) {
	ds := new(mocks.MockDataSource)
	task := newTransactionTask(transactionEntry("USD", "USD"), ds, new(MockReconEngine))

	assert.NoError(t, task.Validate(context.Background()))
}

func TestTransactionTask_ValidateNotInitialized(t *testing.T) {
	ds := new(mocks.MockDataSource)
	task := newTransactionTask(nil, ds, new(MockReconEngine))

	err := task.Validate(context.Background())
	assert.Error(t, err)
	var pErr taskerror.ProcessingError
	assert.ErrorAs(t, err, &pErr)
	assert.Contains(t, pErr.Message, "not properly initialized")
}

func TestTransactionTask_ValidateMissingMerchant(t *testing.T) {
	ds := new(mocks.MockDataSource)
	entry := transactionEntry("USD", "USD")
	entry.Account.MerchantID = ""
	task := newTransactionTask(entry, ds, new(MockReconEngine))

	err := task.Validate(context.Background())
	assert.True(t, taskerror.IsValidation(err))
	assert.Contains(t, err.Error(), "Merchant ID not found")
}

func TestTransactionTask_ValidateCurrencyMismatchFlagsEntry(t *testing.T) {
	ds := new(mocks.MockDataSource)
	entry := transactionEntry("USD", "EUR")
	task := newTransactionTask(entry, ds, new(MockReconEngine))

	ds.On("UpdateStagingEntryStatus", mock.Anything, "se-1", model.StagingStatusNeedsManualReview, mock.MatchedBy(func(md map[string]interface{}) bool {
		return md["staging_entry_currency"] == "USD" && md["account_currency"] == "EUR"
	})).Return(nil)

	err := task.Validate(context.Background())
	assert.True(t, taskerror.IsValidation(err))
	assert.Contains(t, err.Error(), "Currency mismatch")
	ds.AssertCalled(t, "UpdateStagingEntryStatus", mock.Anything, "se-1", model.StagingStatusNeedsManualReview, mock.Anything)
}

func TestTransactionTask_ValidateIdempotentOnFailure(t *testing.T) {
	ds := new(mocks.MockDataSource)
	entry := transactionEntry("USD", "EUR")
	task := newTransactionTask(entry, ds, new(MockReconEngine))

	ds.On("UpdateStagingEntryStatus", mock.Anything, "se-1", model.StagingStatusNeedsManualReview, mock.Anything).Return(nil)

	first := task.Validate(context.Background())
	second := task.Validate(context.Background())
	assert.Equal(t, first, second)
}

func TestTransactionTask_RunShortCircuitsOnValidationFailure(t *testing.T) {
	ds := new(mocks.MockDataSource)
	engine := new(MockReconEngine)
	entry := transactionEntry("USD", "EUR")
	task := newTransactionTask(entry, ds, engine)

	ds.On("UpdateStagingEntryStatus", mock.Anything, "se-1", model.StagingStatusNeedsManualReview, mock.Anything).Return(nil)

	_, err := task.Run(context.Background())
	assert.True(t, taskerror.IsValidation(err))
	engine.AssertNotCalled(t, "ProcessStagingEntryWithRecon", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionTask_RunSuccess(t *testing.T) {
	ds := new(mocks.MockDataSource)
	engine := new(MockReconEngine)
	entry := transactionEntry("USD", "USD")
	task := newTransactionTask(entry, ds, engine)

	engine.On("ProcessStagingEntryWithRecon", mock.Anything, entry, "mer_1").Return(&model.TransactionResult{
		TransactionID: "txn_1", LogicalTransactionID: "ltx_1", Version: 1, Status: "APPLIED",
	}, nil)
	ds.On("UpdateStagingEntryStatus", mock.Anything, "se-1", model.StagingStatusProcessed, mock.MatchedBy(func(md map[string]interface{}) bool {
		return md["transaction_id"] == "txn_1"
	})).Return(nil)

	result, err := RunWithValidation(context.Background(), task)
	assert.NoError(t, err)
	txn, ok := result.(*model.TransactionResult)
	assert.True(t, ok)
	assert.Equal(t, "txn_1", txn.TransactionID)
}

func TestTransactionTask_RunWrapsEngineError(t *testing.T) {
	ds := new(mocks.MockDataSource)
	engine := new(MockReconEngine)
	entry := transactionEntry("USD", "USD")
	task := newTransactionTask(entry, ds, engine)

	engine.On("ProcessStagingEntryWithRecon", mock.Anything, entry, "mer_1").Return(nil, assert.AnError)

	_, err := task.Run(context.Background())
	var pErr taskerror.ProcessingError
	assert.ErrorAs(t, err, &pErr)
	assert.Contains(t, pErr.Message, "se-1")
	assert.False(t, taskerror.IsNoMatch(err))
}
