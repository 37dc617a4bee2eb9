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
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/internal/request"
	"github.com/clearline-finance/clearline/model"
)

// HTTPReconEngine talks to the external reconciliation engine service over
// HTTP. A 404 or a structured "no_match" reply maps onto ErrNoMatchFound.
type HTTPReconEngine struct{}

// NewHTTPReconEngine returns a ReconEngine backed by the service configured
// under recon_engine.
func NewHTTPReconEngine() *HTTPReconEngine {
	return &HTTPReconEngine{}
}

type reconEngineRequest struct {
	StagingEntry *model.StagingEntryWithAccount `json:"staging_entry"`
	MerchantID   string                         `json:"merchant_id"`
}

type reconEngineResponse struct {
	Transaction *model.TransactionResult `json:"transaction,omitempty"`
	ErrorType   string                   `json:"error_type,omitempty"`
	Message     string                   `json:"message,omitempty"`
}

func (e *HTTPReconEngine) ProcessStagingEntryWithRecon(ctx context.Context, entry *model.StagingEntryWithAccount, merchantID string) (*model.TransactionResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if cnf.ReconEngine.Url == "" {
		return nil, errors.New("recon engine URL not configured")
	}

	payload, err := request.ToJsonReq(&reconEngineRequest{StagingEntry: entry, MerchantID: merchantID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize recon engine request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/reconcile", cnf.ReconEngine.Url), payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build recon engine request")
	}
	if cnf.ReconEngine.Headers.Authorization != "" {
		req.Header.Set("Authorization", cnf.ReconEngine.Headers.Authorization)
	}

	var response reconEngineResponse
	resp, err := request.Call(req, &response)
	if err != nil {
		return nil, errors.Wrap(err, "recon engine call failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound || response.ErrorType == "no_match" {
		return nil, ErrNoMatchFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("recon engine returned status %d: %s", resp.StatusCode, response.Message)
	}
	if response.Transaction == nil {
		return nil, errors.New("recon engine returned no transaction")
	}

	return response.Transaction, nil
}
