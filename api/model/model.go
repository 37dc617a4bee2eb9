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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/clearline-finance/clearline/model"
)

type CreateStagingEntry struct {
	AccountID      string                 `json:"account_id"`
	Amount         decimal.Decimal        `json:"amount"`
	Currency       string                 `json:"currency"`
	EntryType      string                 `json:"entry_type"`
	ProcessingMode string                 `json:"processing_mode"`
	EffectiveDate  time.Time              `json:"effective_date"`
	MetaData       map[string]interface{} `json:"meta_data"`
}

type CreateReconRule struct {
	MerchantID   string `json:"merchant_id"`
	AccountOneID string `json:"account_one_id"`
	AccountTwoID string `json:"account_two_id"`
}

type TriggerQueue struct {
	TimeoutSec int `json:"timeout_sec"`
}

func (s *CreateStagingEntry) ValidateCreateStagingEntry() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.AccountID, validation.Required),
		validation.Field(&s.Amount, validation.Required, validation.By(func(value interface{}) error {
			amount, ok := value.(decimal.Decimal)
			if !ok || amount.IsNegative() || amount.IsZero() {
				return validation.NewError("validation_amount", "amount must be a positive number")
			}
			return nil
		})),
		validation.Field(&s.Currency, validation.Required, validation.Length(3, 3)),
		validation.Field(&s.EntryType, validation.Required, validation.In(model.EntryTypeDebit, model.EntryTypeCredit)),
		validation.Field(&s.ProcessingMode, validation.Required, validation.In(model.ProcessingModeTransaction, model.ProcessingModeConfirmation)),
	)
}

func (r *CreateReconRule) ValidateCreateReconRule() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MerchantID, validation.Required),
		validation.Field(&r.AccountOneID, validation.Required),
		validation.Field(&r.AccountTwoID, validation.Required, validation.By(func(value interface{}) error {
			if r.AccountOneID != "" && r.AccountOneID == r.AccountTwoID {
				return validation.NewError("validation_accounts", "a rule must pair two different accounts")
			}
			return nil
		})),
	)
}

func (s *CreateStagingEntry) ToStagingEntry() *model.StagingEntry {
	return &model.StagingEntry{
		AccountID:      s.AccountID,
		Amount:         s.Amount,
		Currency:       s.Currency,
		EntryType:      s.EntryType,
		ProcessingMode: s.ProcessingMode,
		EffectiveDate:  s.EffectiveDate,
		MetaData:       s.MetaData,
	}
}

func (r *CreateReconRule) ToReconRule() *model.ReconRule {
	return &model.ReconRule{
		MerchantID:   r.MerchantID,
		AccountOneID: r.AccountOneID,
		AccountTwoID: r.AccountTwoID,
	}
}
