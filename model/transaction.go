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

import "github.com/shopspring/decimal"

// Entry is one leg of a double-entry ledger transaction produced by the
// reconciliation engine.
type Entry struct {
	EntryID   string          `json:"entry_id"`
	AccountID string          `json:"account_id"`
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// TransactionResult is the ledger transaction a staging entry resolved to.
// It is produced by the reconciliation engine and consumed here for logging
// and audit metadata only.
type TransactionResult struct {
	TransactionID        string  `json:"transaction_id"`
	LogicalTransactionID string  `json:"logical_transaction_id"`
	Version              int     `json:"version"`
	Status               string  `json:"status"`
	Entries              []Entry `json:"entries"`
}
