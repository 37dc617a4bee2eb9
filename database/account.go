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
	"database/sql"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

// GetAccount retrieves an account by ID. Accounts are read-only to the task
// engine so they are safe to cache. Returns nil, nil when no account exists.
func (d Datasource) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	ctx, span := otel.Tracer("Account").Start(ctx, "Fetching account from db")
	defer span.End()

	cacheKey := fmt.Sprintf("accounts:%s", id)

	if d.Cache != nil {
		account := &model.Account{}
		err := d.Cache.Get(ctx, cacheKey, account)
		if err == nil && account.AccountID != "" {
			return account, nil
		}
	}

	account := &model.Account{}
	var merchantID, accountType sql.NullString
	err := d.Conn.QueryRowContext(ctx, `
		SELECT account_id, merchant_id, currency, account_type
		FROM clearline.accounts
		WHERE account_id = $1
	`, id).Scan(&account.AccountID, &merchantID, &account.Currency, &accountType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}
	account.MerchantID = merchantID.String
	account.AccountType = accountType.String

	if d.Cache != nil {
		err = d.Cache.Set(ctx, cacheKey, account, 5*time.Minute)
		if err != nil {
			// Log the error, but don't return it as the main operation succeeded
			log.Printf("Failed to cache account: %v", err)
		}
	}

	return account, nil
}
