// Package protocol is the static plan generator: a fixed lookup from goal
// category to a wellbeing protocol, with the sleep protocol as fallback
// for unrecognized categories.
package protocol

import (
	"fmt"

	"project/backend/models"
)

const fallbackCategory = "sleep"

var templates = map[string]models.Protocol{
	"sleep": {
		Name:    "Deep Sleep Optimization Protocol",
		Summary: "A 7-day protocol focused on optimizing your circadian rhythm and sleep quality through light exposure, temperature regulation, and evening routines.",
		Actions: []models.ProtocolAction{
			{
				ID:          "1",
				Title:       "Morning Light Exposure",
				Description: "Get 10-15 minutes of direct sunlight within 1 hour of waking",
				Timing:      "Morning (6-8 AM)",
				Why:         "Sunlight exposure helps regulate your circadian rhythm and promotes melatonin production at night.",
				Category:    "light",
			},
			{
				ID:          "2",
				Title:       "Blue Light Blocking",
				Description: "Wear blue-light blocking glasses or use blue light filters 2 hours before bed",
				Timing:      "Evening (8-10 PM)",
				Why:         "Blue light suppresses melatonin production, making it harder to fall asleep naturally.",
				Category:    "light",
			},
			{
				ID:          "3",
				Title:       "Cool Sleep Environment",
				Description: "Keep bedroom temperature between 65-68°F (18-20°C)",
				Timing:      "Bedtime",
				Why:         "Core body temperature naturally drops before sleep, and a cool environment supports this process.",
				Category:    "environment",
			},
			{
				ID:          "4",
				Title:       "Magnesium Supplement",
				Description: "Take 200-400mg magnesium glycinate 1 hour before bed",
				Timing:      "Evening (9 PM)",
				Why:         "Magnesium helps activate the parasympathetic nervous system and promotes muscle relaxation.",
				Category:    "supplement",
			},
		},
	},
	"energy": {
		Name:    "Natural Energy Boost Protocol",
		Summary: "A 5-day protocol to increase sustained energy through strategic nutrition, movement, and breathing techniques.",
		Actions: []models.ProtocolAction{
			{
				ID:          "1",
				Title:       "Cold Water Exposure",
				Description: "Take a 30-60 second cold shower or splash cold water on face and wrists",
				Timing:      "Morning",
				Why:         "Cold exposure activates the sympathetic nervous system and releases adrenaline for natural energy.",
				Category:    "temperature",
			},
			{
				ID:          "2",
				Title:       "Protein-Rich Breakfast",
				Description: "Eat 20-30g protein within 1 hour of waking",
				Timing:      "Morning (7-9 AM)",
				Why:         "Protein provides steady amino acids and helps stabilize blood sugar for sustained energy.",
				Category:    "nutrition",
			},
			{
				ID:          "3",
				Title:       "Energizing Breathwork",
				Description: "Practice 4-7-8 breathing: inhale 4 counts, hold 7, exhale 8. Repeat 4 cycles.",
				Timing:      "Afternoon (2-3 PM)",
				Why:         "Controlled breathing increases oxygen delivery and can combat afternoon energy dips.",
				Category:    "breathing",
			},
		},
	},
	"focus": {
		Name:    "Cognitive Enhancement Protocol",
		Summary: "A 6-day protocol to improve focus and mental clarity through targeted exercises and environmental optimization.",
		Actions: []models.ProtocolAction{
			{
				ID:          "1",
				Title:       "Focused Work Blocks",
				Description: "Work in 25-minute focused sessions with 5-minute breaks (Pomodoro Technique)",
				Timing:      "Work hours",
				Why:         "Time-boxing prevents mental fatigue and maintains high cognitive performance throughout the day.",
				Category:    "focus",
			},
			{
				ID:          "2",
				Title:       "Single-Tasking Practice",
				Description: "Focus on only one task at a time, close unnecessary tabs and notifications",
				Timing:      "Throughout day",
				Why:         "Multitasking reduces cognitive efficiency by up to 40% and increases mental fatigue.",
				Category:    "focus",
			},
			{
				ID:          "3",
				Title:       "Meditation Practice",
				Description: "Practice 10 minutes of focused breathing meditation",
				Timing:      "Morning or evening",
				Why:         "Regular meditation strengthens attention networks in the brain and improves sustained focus.",
				Category:    "mindfulness",
			},
		},
	},
}

// Generate returns the protocol for the goal's category, or the sleep
// protocol when the category is unrecognized.
func Generate(goal models.WellbeingGoal) models.Protocol {
	if p, ok := templates[goal.Category]; ok {
		return p
	}
	return templates[fallbackCategory]
}

// Categories lists the recognized goal categories.
func Categories() []string {
	return []string{"sleep", "energy", "focus"}
}

// ValidateCommitments rejects any commitment whose action is not part of
// the protocol, before it can reach the ledger.
func ValidateCommitments(p models.Protocol, commitments []models.Commitment) error {
	actions := make(map[string]bool, len(p.Actions))
	for _, action := range p.Actions {
		actions[action.ID] = true
	}
	for _, commitment := range commitments {
		if !actions[commitment.ActionID] {
			return fmt.Errorf("commitment references unknown action %q", commitment.ActionID)
		}
	}
	return nil
}

// CommittedActions returns the protocol actions the user committed to, in
// protocol order.
func CommittedActions(p models.Protocol, commitments []models.Commitment) []models.ProtocolAction {
	committed := make(map[string]bool, len(commitments))
	for _, commitment := range commitments {
		committed[commitment.ActionID] = true
	}
	var actions []models.ProtocolAction
	for _, action := range p.Actions {
		if committed[action.ID] {
			actions = append(actions, action)
		}
	}
	return actions
}
