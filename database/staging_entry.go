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
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

// CreateStagingEntry records a new staging entry in PENDING status.
func (d Datasource) CreateStagingEntry(ctx context.Context, entry *model.StagingEntry) (*model.StagingEntry, error) {
	ctx, span := otel.Tracer("StagingEntry").Start(ctx, "Saving staging entry to db")
	defer span.End()

	metaDataJSON, err := json.Marshal(entry.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Failed to marshal metadata", err)
	}

	entry.CreatedAt = time.Now()
	if entry.Status == "" {
		entry.Status = model.StagingStatusPending
	}
	if entry.EffectiveDate.IsZero() {
		entry.EffectiveDate = entry.CreatedAt
	}

	err = d.Conn.QueryRowContext(ctx, `
		INSERT INTO clearline.staging_entries (staging_entry_id, account_id, amount, currency, entry_type, processing_mode, status, effective_date, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, entry.StagingEntryID, entry.AccountID, entry.Amount, entry.Currency, entry.EntryType,
		entry.ProcessingMode, entry.Status, entry.EffectiveDate, entry.CreatedAt, metaDataJSON,
	).Scan(&entry.ID)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Staging entry with this ID already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create staging entry", err)
	}

	return entry, nil
}

// GetStagingEntryRef retrieves the routing projection of a staging entry.
// Returns nil, nil when the entry does not exist.
func (d Datasource) GetStagingEntryRef(ctx context.Context, id string) (*model.StagingEntryRef, error) {
	ctx, span := otel.Tracer("StagingEntry").Start(ctx, "Fetching staging entry ref from db")
	defer span.End()

	ref := &model.StagingEntryRef{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT staging_entry_id, processing_mode, account_id
		FROM clearline.staging_entries
		WHERE staging_entry_id = $1
	`, id).Scan(&ref.StagingEntryID, &ref.ProcessingMode, &ref.AccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve staging entry ref", err)
	}

	return ref, nil
}

// GetStagingEntryWithAccount retrieves a staging entry joined with its owning
// account. The account side is nil when no account matches.
func (d Datasource) GetStagingEntryWithAccount(ctx context.Context, id string) (*model.StagingEntryWithAccount, error) {
	ctx, span := otel.Tracer("StagingEntry").Start(ctx, "Fetching staging entry with account from db")
	defer span.End()

	result := &model.StagingEntryWithAccount{}
	var metaDataJSON []byte
	var accountID, merchantID, accountCurrency, accountType sql.NullString
	err := d.Conn.QueryRowContext(ctx, `
		SELECT s.id, s.staging_entry_id, s.account_id, s.amount, s.currency, s.entry_type,
			s.processing_mode, s.status, s.effective_date, s.created_at, s.discarded_at, s.meta_data,
			a.account_id, a.merchant_id, a.currency, a.account_type
		FROM clearline.staging_entries s
		LEFT JOIN clearline.accounts a ON a.account_id = s.account_id
		WHERE s.staging_entry_id = $1
	`, id).Scan(
		&result.ID,
		&result.StagingEntryID,
		&result.AccountID,
		&result.Amount,
		&result.Currency,
		&result.EntryType,
		&result.ProcessingMode,
		&result.Status,
		&result.EffectiveDate,
		&result.CreatedAt,
		&result.DiscardedAt,
		&metaDataJSON,
		&accountID,
		&merchantID,
		&accountCurrency,
		&accountType,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Staging entry not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve staging entry", err)
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &result.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	if accountID.Valid {
		result.Account = &model.Account{
			AccountID:   accountID.String,
			MerchantID:  merchantID.String,
			Currency:    accountCurrency.String,
			AccountType: accountType.String,
		}
	}

	return result, nil
}

// UpdateStagingEntryStatus transitions a staging entry and merges the given
// metadata into its meta_data column. ARCHIVED also stamps discarded_at.
func (d Datasource) UpdateStagingEntryStatus(ctx context.Context, id string, status string, metaData map[string]interface{}) error {
	ctx, span := otel.Tracer("StagingEntry").Start(ctx, "Updating staging entry status")
	defer span.End()

	metaDataJSON, err := json.Marshal(metaData)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE clearline.staging_entries
		SET status = $2,
			meta_data = COALESCE(meta_data, '{}'::jsonb) || $3::jsonb,
			discarded_at = CASE WHEN $2 = $4 THEN NOW() ELSE discarded_at END
		WHERE staging_entry_id = $1
	`, id, status, metaDataJSON, model.StagingStatusArchived)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update staging entry status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Staging entry not found", nil)
	}

	return nil
}
