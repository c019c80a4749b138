package controllers

import (
	"errors"
	"time"

	"project/backend/config"
	"project/backend/ledger"
	"project/backend/models"
	"project/backend/protocol"
	"project/backend/utils"
	"project/backend/wizard"

	"github.com/gofiber/fiber/v2"
)

type TrackerController struct {
	Cfg     *config.Config
	Manager *ledger.Manager
	Wizard  *wizard.Store
}

func NewTrackerController(cfg *config.Config, manager *ledger.Manager, ws *wizard.Store) *TrackerController {
	return &TrackerController{Cfg: cfg, Manager: manager, Wizard: ws}
}

// Start godoc
// @Summary Start a tracking session
// @Description Fixes the 7-day window at today and hydrates the ledger from the remote store
// @Tags tracker
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tracker/start [post]
func (tc *TrackerController) Start(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	ctx := c.UserContext()
	state, err := tc.Wizard.Load(ctx, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to load wizard state")
	}
	if state.Step != models.StepTracking {
		return utils.Conflict(c, "Tracking step not reached")
	}

	actionIDs := make([]string, 0, len(state.Commitments))
	for _, commitment := range state.Commitments {
		actionIDs = append(actionIDs, commitment.ActionID)
	}

	tracker, err := tc.Manager.Start(ctx, userID, time.Now(), actionIDs)
	if err != nil {
		// Hydration failed: the ledger is not ready and must not be
		// silently defaulted to zeros. Retrying Start retries hydration.
		return utils.RecoverableError(c, fiber.StatusServiceUnavailable, err)
	}

	return c.JSON(fiber.Map{
		"dates":   tracker.Dates(),
		"actions": tracker.Actions(),
	})
}

// GetBoard godoc
// @Summary Get the tracking board
// @Description Returns the ledger with streak, completion rate and committed actions
// @Tags tracker
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tracker [get]
func (tc *TrackerController) GetBoard(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	tracker, ok := tc.Manager.Get(userID)
	if !ok {
		return utils.Conflict(c, "Tracking session not started")
	}

	state, err := tc.Wizard.Load(c.UserContext(), userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to load wizard state")
	}
	var committed []models.ProtocolAction
	if state.Protocol != nil {
		committed = protocol.CommittedActions(*state.Protocol, state.Commitments)
	}

	today := ledger.DateOf(time.Now())
	return c.JSON(fiber.Map{
		"dates":           tracker.Dates(),
		"board":           tracker.Board(),
		"actions":         committed,
		"streak":          tracker.Streak(today),
		"completion_rate": tracker.CompletionRate(),
		"active_habits":   len(tracker.Actions()),
	})
}

// Toggle godoc
// @Summary Toggle a completion flag
// @Description Flips one (date, action) cell optimistically and syncs the remote store
// @Tags tracker
// @Accept json
// @Produce json
// @Param request body map[string]string true "Date and action"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tracker/toggle [post]
func (tc *TrackerController) Toggle(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Date     string `json:"date"`
		ActionID string `json:"action_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	tracker, ok := tc.Manager.Get(userID)
	if !ok {
		return utils.Conflict(c, "Tracking session not started")
	}

	completed, err := tracker.Toggle(c.UserContext(), input.Date, input.ActionID)
	if err != nil {
		var syncErr *ledger.SyncError
		if errors.As(err, &syncErr) {
			// Ledger already reverted; the user may retry by toggling again
			return utils.RecoverableError(c, fiber.StatusBadGateway, syncErr)
		}
		if errors.Is(err, ledger.ErrNotReady) {
			return utils.RecoverableError(c, fiber.StatusServiceUnavailable, err)
		}
		return utils.InternalServerError(c, "Toggle failed")
	}

	today := ledger.DateOf(time.Now())
	return c.JSON(fiber.Map{
		"date":            input.Date,
		"action_id":       input.ActionID,
		"completed":       completed,
		"streak":          tracker.Streak(today),
		"completion_rate": tracker.CompletionRate(),
	})
}
