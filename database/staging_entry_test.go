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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clearline-finance/clearline/internal/apierror"
	"github.com/clearline-finance/clearline/model"
)

func TestCreateStagingEntry_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.StagingEntry{
		StagingEntryID: model.GenerateUUIDWithSuffix("stg"),
		AccountID:      gofakeit.UUID(),
		Amount:         decimal.NewFromFloat(150.75),
		Currency:       "USD",
		EntryType:      model.EntryTypeCredit,
		ProcessingMode: model.ProcessingModeTransaction,
		MetaData:       map[string]interface{}{"order_id": "ord_1"},
	}

	mock.ExpectQuery("INSERT INTO clearline.staging_entries").
		WithArgs(entry.StagingEntryID, entry.AccountID, entry.Amount, entry.Currency, entry.EntryType,
			entry.ProcessingMode, model.StagingStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	created, err := ds.CreateStagingEntry(context.Background(), entry)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, model.StagingStatusPending, created.Status)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestCreateStagingEntry_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.StagingEntry{
		StagingEntryID: "stg_dup",
		AccountID:      "acc_1",
		Amount:         decimal.NewFromInt(10),
		Currency:       "USD",
		EntryType:      model.EntryTypeDebit,
		ProcessingMode: model.ProcessingModeConfirmation,
	}

	mock.ExpectQuery("INSERT INTO clearline.staging_entries").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})

	_, err = ds.CreateStagingEntry(context.Background(), entry)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestGetStagingEntryRef_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"staging_entry_id", "processing_mode", "account_id"}).
		AddRow("stg_1", model.ProcessingModeTransaction, "acc_1")

	mock.ExpectQuery("SELECT staging_entry_id, processing_mode, account_id FROM clearline.staging_entries").
		WithArgs("stg_1").
		WillReturnRows(rows)

	ref, err := ds.GetStagingEntryRef(context.Background(), "stg_1")
	assert.NoError(t, err)
	assert.NotNil(t, ref)
	assert.Equal(t, model.ProcessingModeTransaction, ref.ProcessingMode)
}

func TestGetStagingEntryRef_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT staging_entry_id, processing_mode, account_id FROM clearline.staging_entries").
		WithArgs("stg_missing").
		WillReturnError(sql.ErrNoRows)

	ref, err := ds.GetStagingEntryRef(context.Background(), "stg_missing")
	assert.NoError(t, err)
	assert.Nil(t, ref)
}

func stagingEntryJoinColumns() []string {
	return []string{
		"id", "staging_entry_id", "account_id", "amount", "currency", "entry_type",
		"processing_mode", "status", "effective_date", "created_at", "discarded_at", "meta_data",
		"a_account_id", "a_merchant_id", "a_currency", "a_account_type",
	}
}

func TestGetStagingEntryWithAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := sqlmock.NewRows(stagingEntryJoinColumns()).
		AddRow(int64(1), "stg_1", "acc_1", "150.75", "USD", model.EntryTypeCredit,
			model.ProcessingModeTransaction, model.StagingStatusPending, now, now, nil, []byte(`{"order_id":"ord_1"}`),
			"acc_1", "mer_1", "USD", "SETTLEMENT")

	mock.ExpectQuery("SELECT s.id, s.staging_entry_id").
		WithArgs("stg_1").
		WillReturnRows(rows)

	result, err := ds.GetStagingEntryWithAccount(context.Background(), "stg_1")
	assert.NoError(t, err)
	assert.Equal(t, "stg_1", result.StagingEntryID)
	assert.NotNil(t, result.Account)
	assert.Equal(t, "mer_1", result.Account.MerchantID)
	orderID, ok := result.OrderID()
	assert.True(t, ok)
	assert.Equal(t, "ord_1", orderID)
}

func TestGetStagingEntryWithAccount_NoAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := sqlmock.NewRows(stagingEntryJoinColumns()).
		AddRow(int64(1), "stg_1", "acc_orphan", "10", "USD", model.EntryTypeDebit,
			model.ProcessingModeConfirmation, model.StagingStatusPending, now, now, nil, nil,
			nil, nil, nil, nil)

	mock.ExpectQuery("SELECT s.id, s.staging_entry_id").
		WithArgs("stg_1").
		WillReturnRows(rows)

	result, err := ds.GetStagingEntryWithAccount(context.Background(), "stg_1")
	assert.NoError(t, err)
	assert.Nil(t, result.Account)
}

func TestGetStagingEntryWithAccount_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT s.id, s.staging_entry_id").
		WithArgs("stg_missing").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetStagingEntryWithAccount(context.Background(), "stg_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestUpdateStagingEntryStatus_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE clearline.staging_entries").
		WithArgs("stg_1", model.StagingStatusProcessed, sqlmock.AnyArg(), model.StagingStatusArchived).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.UpdateStagingEntryStatus(context.Background(), "stg_1", model.StagingStatusProcessed,
		map[string]interface{}{"transaction_id": "txn_1"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStagingEntryStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE clearline.staging_entries").
		WithArgs("stg_missing", model.StagingStatusNeedsManualReview, sqlmock.AnyArg(), model.StagingStatusArchived).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateStagingEntryStatus(context.Background(), "stg_missing", model.StagingStatusNeedsManualReview, nil)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
