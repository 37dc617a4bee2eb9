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

	"github.com/shopspring/decimal"
)

// Entry types for a staging entry.
const (
	EntryTypeDebit  = "DEBIT"
	EntryTypeCredit = "CREDIT"
)

// Processing modes. The mode is the discriminator that selects which task
// variant owns a staging entry.
const (
	ProcessingModeTransaction  = "TRANSACTION"
	ProcessingModeConfirmation = "CONFIRMATION"
)

// Staging entry statuses. PROCESSED and ARCHIVED are terminal;
// NEEDS_MANUAL_REVIEW is a human-recoverable dead end.
const (
	StagingStatusPending           = "PENDING"
	StagingStatusNeedsManualReview = "NEEDS_MANUAL_REVIEW"
	StagingStatusProcessed         = "PROCESSED"
	StagingStatusArchived          = "ARCHIVED"
)

// StagingEntry is a raw, unposted financial movement awaiting reconciliation
// into the ledger. Created by the ingestion pipeline; mutated by task
// variants during validate/run.
type StagingEntry struct {
	ID             int64                  `json:"-"`
	StagingEntryID string                 `json:"staging_entry_id"`
	AccountID      string                 `json:"account_id"`
	EntryType      string                 `json:"entry_type"`
	Amount         decimal.Decimal        `json:"amount"`
	Currency       string                 `json:"currency"`
	Status         string                 `json:"status"`
	ProcessingMode string                 `json:"processing_mode"`
	EffectiveDate  time.Time              `json:"effective_date"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
	DiscardedAt    *time.Time             `json:"discarded_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Account is read-only to the task engine. It is consulted to validate
// currency agreement and to resolve merchant scoping.
type Account struct {
	AccountID   string `json:"account_id"`
	MerchantID  string `json:"merchant_id"`
	Currency    string `json:"currency"`
	AccountType string `json:"account_type"`
}

// StagingEntryRef is the cheap existence-and-discriminator projection of a
// staging entry, fetched during dispatch so declining variants never load
// the full entity.
type StagingEntryRef struct {
	StagingEntryID string `json:"staging_entry_id"`
	ProcessingMode string `json:"processing_mode"`
	AccountID      string `json:"account_id"`
}

// StagingEntryWithAccount is a staging entry loaded together with its owning
// account, as handed to a task instance by its decide factory.
type StagingEntryWithAccount struct {
	StagingEntry
	Account *Account `json:"account,omitempty"`
}

// OrderID returns the order_id correlation key from the entry metadata, if
// present.
func (s *StagingEntry) OrderID() (string, bool) {
	if s.MetaData == nil {
		return "", false
	}
	v, ok := s.MetaData["order_id"]
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
