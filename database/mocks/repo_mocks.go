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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearline-finance/clearline/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Queue methods

func (m *MockDataSource) CreateTask(ctx context.Context, tracker *model.ProcessTracker) (*model.ProcessTracker, error) {
	args := m.Called(ctx, tracker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessTracker), args.Error(1)
}

func (m *MockDataSource) ClaimNextPendingTask(ctx context.Context, taskType string) (*model.ProcessTracker, error) {
	args := m.Called(ctx, taskType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessTracker), args.Error(1)
}

func (m *MockDataSource) UpdateTaskStatus(ctx context.Context, taskID string, status string, lastError string) error {
	args := m.Called(ctx, taskID, status, lastError)
	return args.Error(0)
}

func (m *MockDataSource) GetTask(ctx context.Context, taskID string) (*model.ProcessTracker, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessTracker), args.Error(1)
}

func (m *MockDataSource) GetTasksByStatus(ctx context.Context, status string, limit int) ([]*model.ProcessTracker, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProcessTracker), args.Error(1)
}

// Staging entry methods

func (m *MockDataSource) CreateStagingEntry(ctx context.Context, entry *model.StagingEntry) (*model.StagingEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StagingEntry), args.Error(1)
}

func (m *MockDataSource) GetStagingEntryRef(ctx context.Context, id string) (*model.StagingEntryRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StagingEntryRef), args.Error(1)
}

func (m *MockDataSource) GetStagingEntryWithAccount(ctx context.Context, id string) (*model.StagingEntryWithAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StagingEntryWithAccount), args.Error(1)
}

func (m *MockDataSource) UpdateStagingEntryStatus(ctx context.Context, id string, status string, metaData map[string]interface{}) error {
	args := m.Called(ctx, id, status, metaData)
	return args.Error(0)
}

// Account methods

func (m *MockDataSource) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

// Recon rule methods

func (m *MockDataSource) CreateReconRule(ctx context.Context, rule *model.ReconRule) (*model.ReconRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconRule), args.Error(1)
}

func (m *MockDataSource) GetReconRulesByMerchant(ctx context.Context, merchantID string) ([]*model.ReconRule, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReconRule), args.Error(1)
}

func (m *MockDataSource) ReconRuleExistsForAccount(ctx context.Context, merchantID, accountID string) (bool, error) {
	args := m.Called(ctx, merchantID, accountID)
	return args.Bool(0), args.Error(1)
}
