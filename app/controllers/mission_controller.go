package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
	"github.com/wirawanawe/phc-mobile-sub004/app/queries"
	"github.com/wirawanawe/phc-mobile-sub004/app/services"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/database"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/utils"
)

func missionService() *services.MissionService {
	repo := &queries.UserMissionQueries{MissionQueries: queries.MissionQueries{DB: database.DB}}
	ledger := &queries.UserQueries{DB: database.DB}
	return services.NewMissionService(repo, ledger)
}

// missionErrorStatus maps engine error kinds onto HTTP status codes.
func missionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidState):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func GetMissions(c *fiber.Ctx) error {
	filter := models.MissionFilter{
		Category:   c.Query("category"),
		ActiveOnly: c.Query("active", "true") != "false",
	}

	missions, err := missionService().ListMissions(filter)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": "Failed to get missions"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"missions": missions})
}

func GetUserMissions(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userMissions, err := missionService().ListUserMissions(userID)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": "Failed to get user missions"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user_missions": userMissions})
}

func AcceptMission(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	payload := &models.AcceptMissionRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	missionID, err := uuid.Parse(payload.MissionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission_id"})
	}

	um, err := missionService().AcceptMission(userID, missionID, payload.Notes)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Mission accepted", "user_mission": um})
}

func UpdateMissionProgress(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	payload := &models.UpdateProgressRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	userMissionID, err := uuid.Parse(payload.UserMissionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_mission_id"})
	}

	um, err := missionService().UpdateProgress(userID, userMissionID, payload.CurrentValue)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if um.Status == models.UserMissionCompleted {
		utils.DefaultNotifier.NotifyEvent(userID, "mission_completed", fiber.Map{
			"user_mission_id": um.ID,
			"mission_id":      um.MissionID,
			"points_earned":   um.PointsEarned,
			"streak_count":    um.StreakCount,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user_mission": um})
}

func AbandonMission(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	payload := &models.AbandonMissionRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	userMissionID, err := uuid.Parse(payload.UserMissionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_mission_id"})
	}

	if err := missionService().AbandonMission(userID, userMissionID); err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Mission abandoned"})
}

func GetMissionStats(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := missionService().GetStats(userID)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": "Failed to get mission stats"})
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// CreateMission seeds a catalog entry. Admin or internal use.
func CreateMission(c *fiber.Ctx) error {
	payload := &models.CreateMissionRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	m := &models.Mission{
		ID:          uuid.New(),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Type:        models.MissionType(payload.Type),
		TargetValue: payload.TargetValue,
		Unit:        payload.Unit,
		Points:      payload.Points,
		Difficulty:  models.MissionDifficulty(payload.Difficulty),
		IsActive:    true,
	}
	if payload.StartDate != nil {
		t, err := time.Parse("2006-01-02", *payload.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format, use YYYY-MM-DD"})
		}
		m.StartDate = &t
	}
	if payload.EndDate != nil {
		t, err := time.Parse("2006-01-02", *payload.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format, use YYYY-MM-DD"})
		}
		m.EndDate = &t
	}

	if err := missionService().CreateMission(m); err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Mission created", "mission": m})
}

// MissionWsHandler keeps a websocket open for mission lifecycle events.
// The client authenticates with ?token=<jwt>.
func MissionWsHandler(c *websocket.Conn) {
	token := c.Query("token")
	userID, err := utils.ExtractUserIDFromToken(token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "invalid token"})
		_ = c.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, c)
	defer utils.DefaultNotifier.Unregister(userID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
