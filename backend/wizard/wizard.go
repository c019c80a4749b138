// Package wizard persists the guided flow's state: the current step and
// the goal, protocol and commitment artifacts. Each field is one durable
// key, persisted independently, so saving one never blocks another.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"project/backend/models"
	"project/backend/protocol"
	"project/backend/store"
)

// Durable field keys, one per wizard artifact.
const (
	KeyStep        = "wellbeing-current-step"
	KeyGoal        = "wellbeing-user-goal"
	KeyProtocol    = "wellbeing-protocol"
	KeyCommitments = "wellbeing-commitments"
)

var (
	// ErrInvalidTransition marks a step change outside the allowed
	// forward/back edges. A caller error, not a sync concern.
	ErrInvalidTransition = errors.New("invalid step transition")
	// ErrNoProtocol is returned when commitments arrive before a
	// protocol has been generated.
	ErrNoProtocol = errors.New("no protocol generated")
)

// forward holds the single allowed forward edge per step; back holds the
// "back" target per screen, which is not always the immediate
// predecessor (protocol goes back to goals to regenerate).
var forward = map[models.Step]models.Step{
	models.StepWelcome:    models.StepGoals,
	models.StepGoals:      models.StepGenerating,
	models.StepGenerating: models.StepProtocol,
	models.StepProtocol:   models.StepCommitment,
	models.StepCommitment: models.StepTracking,
}

var back = map[models.Step]models.Step{
	models.StepGoals:      models.StepWelcome,
	models.StepProtocol:   models.StepGoals,
	models.StepCommitment: models.StepProtocol,
	models.StepTracking:   models.StepCommitment,
}

// ValidTransition reports whether moving from one step to another follows
// an allowed forward or back edge.
func ValidTransition(from, to models.Step) bool {
	return forward[from] == to || back[from] == to
}

// Store reads and writes wizard state through the durable KV. Every
// operation takes the user explicitly; there is no ambient session.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Load reconstructs the wizard state. Nothing persisted yet is the normal
// first run: step defaults to welcome, goal and protocol stay absent,
// commitments stay empty.
func (s *Store) Load(ctx context.Context, userID uint) (models.WizardState, error) {
	state := models.WizardState{
		Step:        models.StepWelcome,
		Commitments: []models.Commitment{},
	}

	if value, ok, err := s.kv.Get(ctx, userID, KeyStep); err != nil {
		return state, fmt.Errorf("load step: %w", err)
	} else if ok && knownStep(models.Step(value)) {
		state.Step = models.Step(value)
	}

	if value, ok, err := s.kv.Get(ctx, userID, KeyGoal); err != nil {
		return state, fmt.Errorf("load goal: %w", err)
	} else if ok {
		var goal models.WellbeingGoal
		if err := json.Unmarshal([]byte(value), &goal); err != nil {
			return state, fmt.Errorf("decode goal: %w", err)
		}
		state.Goal = &goal
	}

	if value, ok, err := s.kv.Get(ctx, userID, KeyProtocol); err != nil {
		return state, fmt.Errorf("load protocol: %w", err)
	} else if ok {
		var p models.Protocol
		if err := json.Unmarshal([]byte(value), &p); err != nil {
			return state, fmt.Errorf("decode protocol: %w", err)
		}
		state.Protocol = &p
	}

	if value, ok, err := s.kv.Get(ctx, userID, KeyCommitments); err != nil {
		return state, fmt.Errorf("load commitments: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(value), &state.Commitments); err != nil {
			return state, fmt.Errorf("decode commitments: %w", err)
		}
	}

	return state, nil
}

// SetStep validates the transition from the currently persisted step and
// stores the new one.
func (s *Store) SetStep(ctx context.Context, userID uint, step models.Step) error {
	if !knownStep(step) {
		return fmt.Errorf("%w: unknown step %q", ErrInvalidTransition, step)
	}
	current := models.StepWelcome
	if value, ok, err := s.kv.Get(ctx, userID, KeyStep); err != nil {
		return fmt.Errorf("load step: %w", err)
	} else if ok && knownStep(models.Step(value)) {
		current = models.Step(value)
	}
	if !ValidTransition(current, step) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, step)
	}
	return s.kv.Set(ctx, userID, KeyStep, string(step))
}

func (s *Store) SetGoal(ctx context.Context, userID uint, goal models.WellbeingGoal) error {
	return s.setJSON(ctx, userID, KeyGoal, goal)
}

func (s *Store) SetProtocol(ctx context.Context, userID uint, p models.Protocol) error {
	return s.setJSON(ctx, userID, KeyProtocol, p)
}

// SetCommitments checks every commitment against the active protocol's
// actions before persisting; a dangling action ID never reaches storage
// or the ledger.
func (s *Store) SetCommitments(ctx context.Context, userID uint, commitments []models.Commitment) error {
	state, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	if state.Protocol == nil {
		return ErrNoProtocol
	}
	if err := protocol.ValidateCommitments(*state.Protocol, commitments); err != nil {
		return err
	}
	return s.setJSON(ctx, userID, KeyCommitments, commitments)
}

func (s *Store) setJSON(ctx context.Context, userID uint, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	return s.kv.Set(ctx, userID, field, string(data))
}

func knownStep(step models.Step) bool {
	switch step {
	case models.StepWelcome, models.StepGoals, models.StepGenerating,
		models.StepProtocol, models.StepCommitment, models.StepTracking:
		return true
	}
	return false
}
