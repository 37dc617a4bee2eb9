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
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

// CreateReconRule records a new reconciliation rule.
func (d Datasource) CreateReconRule(ctx context.Context, rule *model.ReconRule) (*model.ReconRule, error) {
	ctx, span := otel.Tracer("ReconRule").Start(ctx, "Saving recon rule to db")
	defer span.End()

	rule.CreatedAt = time.Now()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO clearline.recon_rules (rule_id, merchant_id, account_one_id, account_two_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, rule.RuleID, rule.MerchantID, rule.AccountOneID, rule.AccountTwoID, rule.CreatedAt).Scan(&rule.ID)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Recon rule with this ID already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid account ID", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create recon rule", err)
	}

	return rule, nil
}

// GetReconRulesByMerchant retrieves all reconciliation rules for a merchant.
func (d Datasource) GetReconRulesByMerchant(ctx context.Context, merchantID string) ([]*model.ReconRule, error) {
	ctx, span := otel.Tracer("ReconRule").Start(ctx, "Fetching recon rules by merchant")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, rule_id, merchant_id, account_one_id, account_two_id, created_at
		FROM clearline.recon_rules
		WHERE merchant_id = $1
		ORDER BY created_at ASC
	`, merchantID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve recon rules", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []*model.ReconRule
	for rows.Next() {
		rule := &model.ReconRule{}
		err := rows.Scan(
			&rule.ID,
			&rule.RuleID,
			&rule.MerchantID,
			&rule.AccountOneID,
			&rule.AccountTwoID,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan recon rule", err)
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over recon rules", err)
	}

	return rules, nil
}

// ReconRuleExistsForAccount reports whether any rule of the merchant covers
// the given account on either side.
func (d Datasource) ReconRuleExistsForAccount(ctx context.Context, merchantID, accountID string) (bool, error) {
	ctx, span := otel.Tracer("ReconRule").Start(ctx, "Checking recon rule for account")
	defer span.End()

	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM clearline.recon_rules
			WHERE merchant_id = $1 AND (account_one_id = $2 OR account_two_id = $2)
		)
	`, merchantID, accountID).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check recon rule existence", err)
	}

	return exists, nil
}
