package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wirawanawe/phc-mobile-sub004/app/controllers"
)

func RegisterEducationRoutes(app *fiber.App) {
	app.Get("/educations", controllers.GetAllEducations)
}
