package tests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"project/backend/ledger"
	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, path string, body interface{}) (map[string]interface{}, int) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func TestWizardFlow(t *testing.T) {
	requireDB(t)
	require.NotEmpty(t, jwtToken, "login must run first")

	// First run: nothing persisted yet
	state, status := doJSON(t, "GET", "/api/wizard", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "welcome", state["step"])

	// Submitting a goal from the welcome screen is a caller error
	goal := map[string]interface{}{
		"category":     "focus",
		"struggle":     "too many tabs",
		"time_per_day": 20,
		"budget":       "low",
	}
	_, status = doJSON(t, "POST", "/api/wizard/goal", goal)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// welcome -> goals -> generating -> protocol
	_, status = doJSON(t, "PUT", "/api/wizard/step", map[string]string{"step": "goals"})
	require.Equal(t, fiber.StatusOK, status)
	_, status = doJSON(t, "POST", "/api/wizard/goal", goal)
	require.Equal(t, fiber.StatusOK, status)

	protocolResp, status := doJSON(t, "POST", "/api/wizard/protocol", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Cognitive Enhancement Protocol", protocolResp["name"])

	// Skipping straight to tracking is rejected
	_, status = doJSON(t, "PUT", "/api/wizard/step", map[string]string{"step": "tracking"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// protocol -> commitment, then commit to two actions
	_, status = doJSON(t, "PUT", "/api/wizard/step", map[string]string{"step": "commitment"})
	require.Equal(t, fiber.StatusOK, status)

	badCommitments := map[string]interface{}{
		"commitments": []models.Commitment{{ActionID: "missing", Schedule: "daily"}},
	}
	_, status = doJSON(t, "POST", "/api/wizard/commitments", badCommitments)
	assert.Equal(t, fiber.StatusBadRequest, status)

	commitments := map[string]interface{}{
		"commitments": []models.Commitment{
			{ActionID: "1", Description: "pomodoro after breakfast", Schedule: "daily", TargetDate: "2030-01-01"},
			{ActionID: "3", Description: "meditate at 7am", Schedule: "daily", TargetDate: "2030-01-01"},
		},
	}
	_, status = doJSON(t, "POST", "/api/wizard/commitments", commitments)
	require.Equal(t, fiber.StatusOK, status)

	// State survives a reload
	state, status = doJSON(t, "GET", "/api/wizard", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tracking", state["step"])
	assert.Len(t, state["commitments"], 2)
}

func TestTrackerFlow(t *testing.T) {
	requireDB(t)
	require.NotEmpty(t, jwtToken, "login must run first")

	// Toggling before a session starts is rejected
	_, status := doJSON(t, "POST", "/api/tracker/toggle", map[string]string{
		"date": ledger.DateOf(time.Now()), "action_id": "1",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	startResp, status := doJSON(t, "POST", "/api/tracker/start", nil)
	require.Equal(t, fiber.StatusOK, status, "wizard flow must have reached tracking")
	assert.Len(t, startResp["dates"], ledger.WindowDays)
	assert.Len(t, startResp["actions"], 2)

	today := ledger.DateOf(time.Now())

	// Complete both of today's actions: streak 1
	for _, actionID := range []string{"1", "3"} {
		toggleResp, status := doJSON(t, "POST", "/api/tracker/toggle", map[string]string{
			"date": today, "action_id": actionID,
		})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, toggleResp["completed"])
	}

	board, status := doJSON(t, "GET", "/api/tracker", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), board["streak"])
	assert.Equal(t, float64(2), board["active_habits"])
	// 2 of 14 cells completed
	assert.Equal(t, float64(14), board["completion_rate"])

	// A second toggle deletes the remote row and drops the streak
	toggleResp, status := doJSON(t, "POST", "/api/tracker/toggle", map[string]string{
		"date": today, "action_id": "3",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, toggleResp["completed"])
	assert.Equal(t, float64(0), toggleResp["streak"])

	// Out-of-window toggles are no-ops
	_, status = doJSON(t, "POST", "/api/tracker/toggle", map[string]string{
		"date": "1999-01-01", "action_id": "1",
	})
	assert.Equal(t, fiber.StatusOK, status)

	// A restarted session hydrates the same state back from Postgres
	_, status = doJSON(t, "POST", "/api/tracker/start", nil)
	require.Equal(t, fiber.StatusOK, status)
	board, status = doJSON(t, "GET", "/api/tracker", nil)
	require.Equal(t, fiber.StatusOK, status)
	days, ok := board["board"].([]interface{})
	require.True(t, ok)
	first, ok := days[0].(map[string]interface{})
	require.True(t, ok)
	completed, ok := first["completed"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, completed["1"])
	assert.Equal(t, false, completed["3"])
}
