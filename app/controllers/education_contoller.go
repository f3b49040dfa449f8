package controllers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wirawanawe/phc-mobile-sub004/app/queries"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/database"
)

func GetAllEducations(c *fiber.Ctx) error {
	db := database.DB
	if db == nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "database not initialized"})
	}

	eds, err := queries.GetAllEducations(db, c.Query("category"))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(eds)
}
