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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clearline-finance/clearline/model"
)

func TestValidateCreateStagingEntry(t *testing.T) {
	valid := CreateStagingEntry{
		AccountID:      "acc_1",
		Amount:         decimal.NewFromFloat(100.50),
		Currency:       "USD",
		EntryType:      model.EntryTypeCredit,
		ProcessingMode: model.ProcessingModeTransaction,
	}
	assert.NoError(t, valid.ValidateCreateStagingEntry())

	missingAccount := valid
	missingAccount.AccountID = ""
	assert.Error(t, missingAccount.ValidateCreateStagingEntry())

	badEntryType := valid
	badEntryType.EntryType = "TRANSFER"
	assert.Error(t, badEntryType.ValidateCreateStagingEntry())

	badMode := valid
	badMode.ProcessingMode = "BATCH"
	assert.Error(t, badMode.ValidateCreateStagingEntry())

	negativeAmount := valid
	negativeAmount.Amount = decimal.NewFromInt(-5)
	assert.Error(t, negativeAmount.ValidateCreateStagingEntry())

	badCurrency := valid
	badCurrency.Currency = "DOLLARS"
	assert.Error(t, badCurrency.ValidateCreateStagingEntry())
}

func TestValidateCreateReconRule(t *testing.T) {
	valid := CreateReconRule{
		MerchantID:   "mer_1",
		AccountOneID: "acc_1",
		AccountTwoID: "acc_2",
	}
	assert.NoError(t, valid.ValidateCreateReconRule())

	samePair := valid
	samePair.AccountTwoID = "acc_1"
	assert.Error(t, samePair.ValidateCreateReconRule())

	missingMerchant := valid
	missingMerchant.MerchantID = ""
	assert.Error(t, missingMerchant.ValidateCreateReconRule())
}

func TestToStagingEntry(t *testing.T) {
	dto := CreateStagingEntry{
		AccountID:      "acc_1",
		Amount:         decimal.NewFromInt(25),
		Currency:       "EUR",
		EntryType:      model.EntryTypeDebit,
		ProcessingMode: model.ProcessingModeConfirmation,
		MetaData:       map[string]interface{}{"order_id": "ord_1"},
	}

	entry := dto.ToStagingEntry()
	assert.Equal(t, "acc_1", entry.AccountID)
	assert.Equal(t, model.ProcessingModeConfirmation, entry.ProcessingMode)
	assert.Equal(t, "ord_1", entry.MetaData["order_id"])
}
