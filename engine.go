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
	"errors"

	"github.com/clearline-finance/clearline/model"
)

// ErrNoMatchFound is returned by a ReconEngine when nothing matched the
// staging entry yet. Callers distinguish it from genuine engine failures.
var ErrNoMatchFound = errors.New("no match found")

// ReconEngine performs the actual matching and posting for a validated
// staging entry. Its internals live outside this subsystem.
type ReconEngine interface {
	ProcessStagingEntryWithRecon(ctx context.Context, entry *model.StagingEntryWithAccount, merchantID string) (*model.TransactionResult, error)
}
