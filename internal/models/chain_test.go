// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"testing"

	"github.com/sapcc/go-bits/assert"
)

func chainedAction(uuid, next string) Action {
	a := Action{UUID: uuid, ActionPlanUUID: "plan1"}
	if next != "" {
		a.NextUUID = &next
	}
	return a
}

func uuidsOf(actions []Action) []string {
	result := make([]string, len(actions))
	for idx, a := range actions {
		result[idx] = a.UUID
	}
	return result
}

func TestSortActionsByChain(t *testing.T) {
	input := []Action{
		chainedAction("c", ""),
		chainedAction("a", "b"),
		chainedAction("b", "c"),
	}
	assert.DeepEqual(t, "sorted chain", uuidsOf(SortActionsByChain(input)), []string{"a", "b", "c"})
	assert.DeepEqual(t, "input is untouched", uuidsOf(input), []string{"c", "a", "b"})

	// two independent chains are each followed from their head
	input = []Action{
		chainedAction("y", ""),
		chainedAction("b", ""),
		chainedAction("x", "y"),
		chainedAction("a", "b"),
	}
	assert.DeepEqual(t, "two chains", uuidsOf(SortActionsByChain(input)), []string{"x", "y", "a", "b"})

	// a dangling link ends the chain
	input = []Action{
		chainedAction("a", "missing"),
		chainedAction("b", ""),
	}
	assert.DeepEqual(t, "dangling link", uuidsOf(SortActionsByChain(input)), []string{"a", "b"})

	// a cycle has no head; its members are appended in their original order
	input = []Action{
		chainedAction("a", "b"),
		chainedAction("b", "a"),
		chainedAction("z", ""),
	}
	assert.DeepEqual(t, "cycle", uuidsOf(SortActionsByChain(input)), []string{"z", "a", "b"})

	assert.DeepEqual(t, "empty", SortActionsByChain(nil), []Action{})
}
