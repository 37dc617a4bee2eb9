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
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// QueuePoller drives the task delegator. It polls the persisted queue at the
// configured interval and processes tasks until the queue is empty, so a
// burst of enqueued work is drained in one tick rather than one task per
// tick.
type QueuePoller struct {
	service      *Clearline
	pollInterval time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// NewQueuePoller creates a new poller around the given service.
func NewQueuePoller(service *Clearline) *QueuePoller {
	return &QueuePoller{
		service:      service,
		pollInterval: 5 * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval sets the interval between polls.
func (p *QueuePoller) WithPollInterval(interval time.Duration) *QueuePoller {
	p.pollInterval = interval
	return p
}

// Start begins polling in the background. When ctx is cancelled, polling
// stops.
func (p *QueuePoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// Stop gracefully stops the poller. It signals the loop to stop and waits
// for the in-flight task, if any, to complete.
func (p *QueuePoller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
	logrus.Info("Queue poller stopped")
}

// IsRunning returns whether the poller is currently running.
func (p *QueuePoller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// run is the main polling loop.
func (p *QueuePoller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Queue poller context cancelled")
			return
		case <-p.stopCh:
			logrus.Info("Queue poller stop signal received")
			return
		case <-ticker.C:
			p.drainTick(ctx)
		}
	}
}

// drainTick processes tasks until the queue is empty or a stop is requested.
func (p *QueuePoller) drainTick(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		default:
		}
		if !p.service.ProcessSingleTask(ctx) {
			return
		}
	}
}
