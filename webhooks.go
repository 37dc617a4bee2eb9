/*
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
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/internal/notification"
	"github.com/clearline-finance/clearline/model"
)

// NewWebhook represents the structure of a webhook notification.
// It includes an event type and associated payload data.
type NewWebhook struct {
	Event   string      `json:"event"` // The event type that triggered the webhook.
	Payload interface{} `json:"data"`  // The data associated with the event.
}

// getEventFromStatus maps a terminal task status to its event string.
func getEventFromStatus(status string) string {
	switch status {
	case model.TaskStatusCompleted:
		return "task.completed"
	case model.TaskStatusFailed:
		return "task.failed"
	default:
		return "task.unknown"
	}
}

// processHTTP sends a webhook notification via HTTP POST request.
func processHTTP(data NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		log.Println("Error fetching config:", err)
		return err
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Println("Error marshaling data:", err)
		return err
	}
	payload := bytes.NewBuffer(jsonData)

	req, err := http.NewRequest("POST", conf.Notification.Webhook.Url, payload)
	if err != nil {
		log.Println("Error creating request:", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	for key, value := range conf.Notification.Webhook.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Error sending request:", err)
		return err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logrus.Error(err)
		}
	}(resp.Body)

	// Check if the status code is not in the 2XX success range
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Request failed with status code: %d\n", resp.StatusCode)
		return nil
	}

	log.Println("Webhook notification sent successfully:", data.Event)
	return nil
}

// SendWebhook delivers a webhook notification with exponential backoff.
// A missing webhook URL disables delivery silently.
func SendWebhook(newWebhook NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	operation := func() error {
		return processHTTP(newWebhook)
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	return backoff.Retry(operation, bo)
}

// postTaskActions fires the terminal-status webhook for a task and reports
// delivery failures to the error channel. It runs in its own goroutine; task
// processing never blocks on notifications.
func (c *Clearline) postTaskActions(record *model.ProcessTracker, status string, lastError string, result interface{}) {
	payload := map[string]interface{}{
		"task_id":   record.TaskID,
		"task_type": record.TaskType,
		"status":    status,
		"attempts":  record.Attempts,
	}
	if lastError != "" {
		payload["last_error"] = lastError
	}
	if record.CompletedAt != nil {
		payload["completed_at"] = record.CompletedAt
	}
	if result != nil {
		payload["result"] = result
	}

	err := SendWebhook(NewWebhook{
		Event:   getEventFromStatus(status),
		Payload: payload,
	})
	if err != nil {
		notification.NotifyError(err)
		logrus.Error(err)
	}
}
