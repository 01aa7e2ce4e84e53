// SPDX-FileCopyrightText: 2019 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"sync"
	"testing"

	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/assert"
	"github.com/sapcc/go-bits/audittools"
)

// ExpectedEvent is the part of an audittools.Event that tests compare against.
type ExpectedEvent struct {
	Action     cadf.Action
	ReasonCode int
	UserID     string
	Target     cadf.Resource
}

// Auditor is a test recorder that satisfies the dashboard.Auditor interface.
type Auditor struct {
	mutex  sync.Mutex
	events []ExpectedEvent
}

// Record implements the dashboard.Auditor interface.
func (a *Auditor) Record(event audittools.Event) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.events = append(a.events, normalize(event))
}

// ExpectEvents checks that the recorded events are equivalent to the supplied expectation.
func (a *Auditor) ExpectEvents(t *testing.T, expectedEvents ...ExpectedEvent) {
	t.Helper()
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if len(expectedEvents) == 0 {
		expectedEvents = nil
	}
	assert.DeepEqual(t, "CADF events", a.events, expectedEvents)

	// reset state for next test
	a.events = nil
}

// IgnoreEventsUntilNow clears the list of recorded events, so that the next
// ExpectEvents() will only cover events generated after this point.
func (a *Auditor) IgnoreEventsUntilNow() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.events = nil
}

func normalize(event audittools.Event) ExpectedEvent {
	result := ExpectedEvent{
		Action:     event.Action,
		ReasonCode: event.ReasonCode,
	}
	if event.User != nil {
		result.UserID = event.User.UserUUID()
	}
	if event.Target != nil {
		result.Target = event.Target.Render()
		// attachments carry full payloads and are covered by dedicated tests
		result.Target.Attachments = nil
	}
	return result
}
