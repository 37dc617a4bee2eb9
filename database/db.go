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
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/internal/cache"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		newCache, errCache := cache.NewCache()
		if errCache != nil {
			log.Printf("cache initialization error: %v", errCache)
		}
		instance = &Datasource{Conn: con, Cache: newCache}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createSchema(db)
	if err != nil {
		return nil, err
	}
	err = createAccountTable(db)
	if err != nil {
		return nil, err
	}
	err = createStagingEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createReconRuleTable(db)
	if err != nil {
		return nil, err
	}
	err = createProcessTrackerTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS clearline`)
	if err != nil {
		log.Printf("Error creating clearline schema: %v", err)
	}
	return err
}

// createProcessTrackerTable creates a PostgreSQL table for the ProcessTracker struct
func createProcessTrackerTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clearline.process_trackers (
			id SERIAL PRIMARY KEY,
			task_id TEXT NOT NULL UNIQUE,
			task_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			attempts INT NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			processing_started_at TIMESTAMP,
			completed_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_process_trackers_claim
			ON clearline.process_trackers (task_type, created_at)
			WHERE status = 'PENDING'
	`)
	if err != nil {
		log.Printf("Error creating process_trackers table: %v", err)
	}
	return err
}

// createStagingEntryTable creates a PostgreSQL table for the StagingEntry struct
func createStagingEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clearline.staging_entries (
			id SERIAL PRIMARY KEY,
			staging_entry_id TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			entry_type TEXT NOT NULL CHECK (entry_type IN ('DEBIT', 'CREDIT')),
			processing_mode TEXT NOT NULL CHECK (processing_mode IN ('TRANSACTION', 'CONFIRMATION')),
			status TEXT NOT NULL DEFAULT 'PENDING',
			effective_date TIMESTAMP NOT NULL DEFAULT NOW(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			discarded_at TIMESTAMP,
			meta_data JSONB
		)
	`)
	if err != nil {
		log.Printf("Error creating staging_entries table: %v", err)
	}
	return err
}

// createAccountTable creates a PostgreSQL table for the Account struct
func createAccountTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clearline.accounts (
			id SERIAL PRIMARY KEY,
			account_id TEXT NOT NULL UNIQUE,
			merchant_id TEXT,
			currency TEXT NOT NULL,
			account_type TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	if err != nil {
		log.Printf("Error creating accounts table: %v", err)
	}
	return err
}

// createReconRuleTable creates a PostgreSQL table for the ReconRule struct
func createReconRuleTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clearline.recon_rules (
			id SERIAL PRIMARY KEY,
			rule_id TEXT NOT NULL UNIQUE,
			merchant_id TEXT NOT NULL,
			account_one_id TEXT NOT NULL REFERENCES clearline.accounts(account_id),
			account_two_id TEXT NOT NULL REFERENCES clearline.accounts(account_id),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_recon_rules_merchant
			ON clearline.recon_rules (merchant_id)
	`)
	if err != nil {
		log.Printf("Error creating recon_rules table: %v", err)
	}
	return err
}
