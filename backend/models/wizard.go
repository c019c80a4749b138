package models

import "time"

// Step is the wizard's current screen.
type Step string

const (
	StepWelcome    Step = "welcome"
	StepGoals      Step = "goals"
	StepGenerating Step = "generating"
	StepProtocol   Step = "protocol"
	StepCommitment Step = "commitment"
	StepTracking   Step = "tracking"
)

type WellbeingGoal struct {
	Category   string `json:"category"`
	Struggle   string `json:"struggle"`
	TimePerDay int    `json:"time_per_day"`
	Budget     string `json:"budget"` // low, medium, high
}

type ProtocolAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timing      string `json:"timing"`
	Why         string `json:"why"`
	Category    string `json:"category"`
}

// Protocol is immutable once generated for a session.
type Protocol struct {
	Name    string           `json:"name"`
	Summary string           `json:"summary"`
	Actions []ProtocolAction `json:"actions"`
}

type Commitment struct {
	ActionID    string `json:"action_id"`
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
	TargetDate  string `json:"target_date"`
}

type WizardState struct {
	Step        Step           `json:"step"`
	Goal        *WellbeingGoal `json:"goal,omitempty"`
	Protocol    *Protocol      `json:"protocol,omitempty"`
	Commitments []Commitment   `json:"commitments"`
}

// WizardField is one durable wizard key for one user. Each of the four
// fields (step, goal, protocol, commitments) persists independently.
type WizardField struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"uniqueIndex:idx_wizard_key;not null"`
	Field     string `gorm:"uniqueIndex:idx_wizard_key;size:64;not null"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
