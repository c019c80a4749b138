package controllers

import (
	"errors"
	"project/backend/config"
	"project/backend/models"
	"project/backend/protocol"
	"project/backend/utils"
	"project/backend/wizard"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WizardController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Wizard *wizard.Store
}

func NewWizardController(db *gorm.DB, cfg *config.Config, ws *wizard.Store) *WizardController {
	return &WizardController{DB: db, Cfg: cfg, Wizard: ws}
}

// GetState godoc
// @Summary Get wizard state
// @Description Returns the user's current step and saved artifacts
// @Tags wizard
// @Produce json
// @Success 200 {object} models.WizardState
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /wizard [get]
func (wc *WizardController) GetState(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := wc.Wizard.Load(c.UserContext(), userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to load wizard state")
	}
	return c.JSON(state)
}

// SetStep godoc
// @Summary Change wizard step
// @Description Moves the wizard along an allowed forward or back edge
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body map[string]string true "Target step"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /wizard/step [put]
func (wc *WizardController) SetStep(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Step models.Step `json:"step"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := wc.Wizard.SetStep(c.UserContext(), userID, input.Step); err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Failed to save step")
	}
	return c.JSON(fiber.Map{"step": input.Step})
}

// SubmitGoal godoc
// @Summary Submit wellbeing goal
// @Description Saves the goal and moves the wizard to the generating step
// @Tags wizard
// @Accept json
// @Produce json
// @Param goal body models.WellbeingGoal true "Wellbeing goal"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /wizard/goal [post]
func (wc *WizardController) SubmitGoal(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var goal models.WellbeingGoal
	if err := c.BodyParser(&goal); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if goal.Category == "" || goal.Struggle == "" {
		return utils.BadRequest(c, "Category and struggle are required")
	}

	ctx := c.UserContext()
	if err := wc.Wizard.SetGoal(ctx, userID, goal); err != nil {
		return utils.InternalServerError(c, "Failed to save goal")
	}
	if err := wc.Wizard.SetStep(ctx, userID, models.StepGenerating); err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Failed to save step")
	}

	// Goals also live in user_goals so they survive beyond the wizard keys
	record := models.UserGoal{
		UserID:     userID,
		Category:   goal.Category,
		Struggle:   goal.Struggle,
		TimePerDay: goal.TimePerDay,
		Budget:     goal.Budget,
	}
	wc.DB.Create(&record)

	return c.JSON(fiber.Map{"step": models.StepGenerating})
}

// GenerateProtocol godoc
// @Summary Generate protocol
// @Description Generates the protocol for the saved goal and advances to the protocol step
// @Tags wizard
// @Produce json
// @Success 200 {object} models.Protocol
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /wizard/protocol [post]
func (wc *WizardController) GenerateProtocol(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	ctx := c.UserContext()
	state, err := wc.Wizard.Load(ctx, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to load wizard state")
	}
	if state.Goal == nil {
		return utils.BadRequest(c, "No goal submitted")
	}

	p := protocol.Generate(*state.Goal)
	if err := wc.Wizard.SetProtocol(ctx, userID, p); err != nil {
		return utils.InternalServerError(c, "Failed to save protocol")
	}
	if err := wc.Wizard.SetStep(ctx, userID, models.StepProtocol); err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Failed to save step")
	}

	return c.JSON(p)
}

// SubmitCommitments godoc
// @Summary Submit commitments
// @Description Validates commitments against the protocol, persists them and advances to tracking
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Commitments"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /wizard/commitments [post]
func (wc *WizardController) SubmitCommitments(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Commitments []models.Commitment `json:"commitments"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	ctx := c.UserContext()
	if err := wc.Wizard.SetCommitments(ctx, userID, input.Commitments); err != nil {
		if errors.Is(err, wizard.ErrNoProtocol) {
			return utils.BadRequest(c, "No protocol generated")
		}
		return utils.BadRequest(c, err.Error())
	}
	if err := wc.Wizard.SetStep(ctx, userID, models.StepTracking); err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Failed to save step")
	}

	// Mirror the accepted commitments into user_commitments
	for _, commitment := range input.Commitments {
		record := models.UserCommitment{
			UserID:      userID,
			ActionID:    commitment.ActionID,
			Description: commitment.Description,
			Schedule:    commitment.Schedule,
			TargetDate:  commitment.TargetDate,
		}
		wc.DB.Create(&record)
	}

	return c.JSON(fiber.Map{
		"step":        models.StepTracking,
		"commitments": input.Commitments,
	})
}
