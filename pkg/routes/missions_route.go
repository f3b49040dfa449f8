package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/wirawanawe/phc-mobile-sub004/app/controllers"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/middleware"
)

func RegisterMissionRoutes(app *fiber.App) {
	mission := app.Group("/missions", middleware.JWTProtected())
	mission.Get("/", controllers.GetMissions)
	mission.Get("/me", controllers.GetUserMissions)
	mission.Get("/stats", controllers.GetMissionStats)
	mission.Post("/accept", controllers.AcceptMission)
	mission.Post("/progress", controllers.UpdateMissionProgress)
	mission.Post("/abandon", controllers.AbandonMission)
	// admin or internal endpoint to manage the catalog
	mission.Post("/", controllers.CreateMission)

	// mounted outside the guarded prefix: browsers cannot set an
	// Authorization header on a websocket upgrade, so the handler
	// authenticates via ?token= itself
	app.Get("/ws/missions", websocket.New(func(c *websocket.Conn) {
		controllers.MissionWsHandler(c)
	}))
}
