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

package clearline

import (
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/database"
	redis_db "github.com/clearline-finance/clearline/internal/redis-db"
)

// Clearline represents the main struct for the Clearline application.
type Clearline struct {
	datasource  database.IDataSource
	engine      ReconEngine
	taskManager *TaskManager
	redis       redis.UniversalClient
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewClearline initializes a new instance of Clearline with the provided
// datasource and reconciliation engine. Both task variants are registered
// in order; TransactionTask is consulted first during dispatch.
func NewClearline(db database.IDataSource, engine ReconEngine) (*Clearline, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}

	taskManager := NewTaskManager()
	taskManager.RegisterTaskClass(NewTransactionTask)
	taskManager.RegisterTaskClass(NewMatchingTask)

	newClearline := &Clearline{
		datasource:  db,
		engine:      engine,
		taskManager: taskManager,
		redis:       redisClient.Client(),
	}
	return newClearline, nil
}
