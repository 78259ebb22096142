// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "strings"

// =============================================================================
// QUICK SERVICES
// =============================================================================

// QuickAction maps a short slash command to a full prepared query. The
// prepared query is what actually gets submitted, so the assistant receives
// a well-formed request even from a two-word command.
type QuickAction struct {
	Command string
	Label   string
	Query   string
}

// quickActions is the fixed quick-services menu, emergency first.
var quickActions = []QuickAction{
	{
		Command: "/emergency",
		Label:   "Emergency Help (1122)",
		Query:   "I have a medical emergency. What should I do and where is the nearest emergency ward?",
	},
	{
		Command: "/disease",
		Label:   "Disease Information",
		Query:   "I want to know about a disease or symptoms.",
	},
	{
		Command: "/heart",
		Label:   "Heart Specialist (Cardiologist)",
		Query:   "Find best Cardiologists near me with phone numbers and address.",
	},
	{
		Command: "/skin",
		Label:   "Skin Specialist (Dermatologist)",
		Query:   "Find best Dermatologists (Skin Specialists) near me with location and contact.",
	},
	{
		Command: "/bone",
		Label:   "Bone Specialist (Orthopedic)",
		Query:   "Find Orthopedic surgeons (Bone Doctors) near me.",
	},
	{
		Command: "/child",
		Label:   "Child Specialist (Pediatrician)",
		Query:   "Find best Child Specialists (Pediatricians) in my area.",
	},
	{
		Command: "/brain",
		Label:   "Brain Specialist (Neurologist)",
		Query:   "List best Neurologists (Brain Doctors) and hospital details.",
	},
	{
		Command: "/hospitals",
		Label:   "Find Nearby Hospitals",
		Query:   "List famous hospitals in my city with facilities.",
	},
}

// QuickActions returns the quick-services menu.
func QuickActions() []QuickAction {
	return quickActions
}

// lookupQuickAction resolves a slash command to its action. Matching is
// case-insensitive on the bare command with no arguments.
func lookupQuickAction(input string) (QuickAction, bool) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	for _, action := range quickActions {
		if cmd == action.Command {
			return action, true
		}
	}
	return QuickAction{}, false
}
