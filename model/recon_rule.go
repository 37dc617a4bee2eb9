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

import "time"

// ReconRule declares that two accounts of a merchant are reconcilable
// against each other. The existence of a rule covering a staging entry's
// account is a precondition for CONFIRMATION-mode matching.
type ReconRule struct {
	ID           int64     `json:"-"`
	RuleID       string    `json:"rule_id"`
	MerchantID   string    `json:"merchant_id"`
	AccountOneID string    `json:"account_one_id"`
	AccountTwoID string    `json:"account_two_id"`
	CreatedAt    time.Time `json:"created_at"`
}
