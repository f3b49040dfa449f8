package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
	"github.com/wirawanawe/phc-mobile-sub004/app/queries"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/database"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/utils"
)

func UserProfile(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.PasswordHash = ""
	user.OTP = ""

	stats, err := missionService().GetStats(userID)
	if err != nil {
		return c.Status(missionErrorStatus(err)).JSON(fiber.Map{"error": "Failed to get mission stats"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":          user,
		"mission_stats": stats,
	})
}

func UpdateUser(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	payload := &models.UpdateUserRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.UpdateUser(userID, payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User updated"})
}

func DeleteUser(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.DeleteUser(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User deleted"})
}
