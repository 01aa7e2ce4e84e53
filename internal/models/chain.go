// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

// SortActionsByChain orders the actions of one action plan by following the
// NextUUID links, starting at the action that no other action points to.
// Actions that cannot be reached from there (e.g. because the plan is
// organized as a graph via Parents) are appended in their original order.
// The input slice is not modified.
func SortActionsByChain(actions []Action) []Action {
	byUUID := make(map[string]int, len(actions))
	isSuccessor := make(map[string]bool, len(actions))
	for idx, a := range actions {
		byUUID[a.UUID] = idx
		if a.NextUUID != nil && *a.NextUUID != "" {
			isSuccessor[*a.NextUUID] = true
		}
	}

	result := make([]Action, 0, len(actions))
	placed := make([]bool, len(actions))

	for idx, a := range actions {
		if isSuccessor[a.UUID] || placed[idx] {
			continue
		}
		// follow the chain from this head; the `placed` check guards against cycles
		current, ok := idx, true
		for ok && !placed[current] {
			placed[current] = true
			result = append(result, actions[current])
			next := actions[current].NextUUID
			if next == nil {
				break
			}
			current, ok = byUUID[*next]
		}
	}

	for idx, a := range actions {
		if !placed[idx] {
			result = append(result, a)
		}
	}
	return result
}
