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
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearline-finance/clearline/model"
)

// MockReconEngine is a mock implementation of the ReconEngine interface.
type MockReconEngine struct {
	mock.Mock
}

func (m *MockReconEngine) ProcessStagingEntryWithRecon(ctx context.Context, entry *model.StagingEntryWithAccount, merchantID string) (*model.TransactionResult, error) {
	args := m.Called(ctx, entry, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionResult), args.Error(1)
}
