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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

func TestCreateReconRule_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rule := &model.ReconRule{
		RuleID:       model.GenerateUUIDWithSuffix("rule"),
		MerchantID:   "mer_1",
		AccountOneID: "acc_1",
		AccountTwoID: "acc_2",
	}

	mock.ExpectQuery("INSERT INTO clearline.recon_rules").
		WithArgs(rule.RuleID, rule.MerchantID, rule.AccountOneID, rule.AccountTwoID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	created, err := ds.CreateReconRule(context.Background(), rule)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestCreateReconRule_InvalidAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rule := &model.ReconRule{
		RuleID:       "rule_1",
		MerchantID:   "mer_1",
		AccountOneID: "acc_missing",
		AccountTwoID: "acc_2",
	}

	mock.ExpectQuery("INSERT INTO clearline.recon_rules").
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign_key_violation"})

	_, err = ds.CreateReconRule(context.Background(), rule)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
}

func TestGetReconRulesByMerchant_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "rule_id", "merchant_id", "account_one_id", "account_two_id", "created_at"}).
		AddRow(int64(1), "rule_1", "mer_1", "acc_1", "acc_2", now).
		AddRow(int64(2), "rule_2", "mer_1", "acc_3", "acc_4", now)

	mock.ExpectQuery("SELECT id, rule_id, merchant_id, account_one_id, account_two_id, created_at").
		WithArgs("mer_1").
		WillReturnRows(rows)

	rules, err := ds.GetReconRulesByMerchant(context.Background(), "mer_1")
	assert.NoError(t, err)
	assert.Len(t, rules, 2)
	assert.Equal(t, "rule_1", rules[0].RuleID)
}

func TestReconRuleExistsForAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("mer_1", "acc_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.ReconRuleExistsForAccount(context.Background(), "mer_1", "acc_1")
	assert.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("mer_1", "acc_uncovered").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = ds.ReconRuleExistsForAccount(context.Background(), "mer_1", "acc_uncovered")
	assert.NoError(t, err)
	assert.False(t, exists)
}
