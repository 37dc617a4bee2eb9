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
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/clearline-finance/clearline/config"
)

func mockEngineConfig() {
	cnf := &config.Configuration{}
	cnf.ReconEngine.Url = "http://recon-engine.local"
	cnf.ReconEngine.Headers.Authorization = "Bearer test-key"
	config.MockConfig(cnf)
}

func TestHTTPReconEngine_Success(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockEngineConfig()

	httpmock.RegisterResponder("POST", "http://recon-engine.local/reconcile",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"transaction": map[string]interface{}{
					"transaction_id":         "txn_1",
					"logical_transaction_id": "ltx_1",
					"version":                1,
					"status":                 "APPLIED",
				},
			})
		})

	engine := NewHTTPReconEngine()
	result, err := engine.ProcessStagingEntryWithRecon(context.Background(), transactionEntry("USD", "USD"), "mer_1")
	assert.NoError(t, err)
	assert.Equal(t, "txn_1", result.TransactionID)
	assert.Equal(t, 1, result.Version)
}

func TestHTTPReconEngine_NoMatch(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockEngineConfig()

	responder, _ := httpmock.NewJsonResponder(http.StatusUnprocessableEntity, map[string]interface{}{
		"error_type": "no_match",
		"message":    "no matching counterpart",
	})
	httpmock.RegisterResponder("POST", "http://recon-engine.local/reconcile", responder)

	engine := NewHTTPReconEngine()
	_, err := engine.ProcessStagingEntryWithRecon(context.Background(), transactionEntry("USD", "USD"), "mer_1")
	assert.ErrorIs(t, err, ErrNoMatchFound)
}

func TestHTTPReconEngine_NotFoundIsNoMatch(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockEngineConfig()

	responder, _ := httpmock.NewJsonResponder(http.StatusNotFound, map[string]interface{}{})
	httpmock.RegisterResponder("POST", "http://recon-engine.local/reconcile", responder)

	engine := NewHTTPReconEngine()
	_, err := engine.ProcessStagingEntryWithRecon(context.Background(), transactionEntry("USD", "USD"), "mer_1")
	assert.ErrorIs(t, err, ErrNoMatchFound)
}

func TestHTTPReconEngine_ServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockEngineConfig()

	responder, _ := httpmock.NewJsonResponder(http.StatusInternalServerError, map[string]interface{}{
		"message": "engine exploded",
	})
	httpmock.RegisterResponder("POST", "http://recon-engine.local/reconcile", responder)

	engine := NewHTTPReconEngine()
	_, err := engine.ProcessStagingEntryWithRecon(context.Background(), transactionEntry("USD", "USD"), "mer_1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatchFound)
	assert.Contains(t, err.Error(), "engine exploded")
}

func TestHTTPReconEngine_MissingURL(t *testing.T) {
	config.MockConfig(&config.Configuration{})

	engine := NewHTTPReconEngine()
	_, err := engine.ProcessStagingEntryWithRecon(context.Background(), transactionEntry("USD", "USD"), "mer_1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
