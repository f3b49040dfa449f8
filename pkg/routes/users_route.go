package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wirawanawe/phc-mobile-sub004/app/controllers"
	"github.com/wirawanawe/phc-mobile-sub004/pkg/middleware"
)

func RegisterUserRoutes(app *fiber.App) {
	// Public routes
	app.Post("/signup", controllers.UserSignUp)
	app.Post("/signin", controllers.UserSignIn)
	app.Post("/verify-otp", controllers.UserVerifyOTP)
	app.Post("/refresh-token", controllers.RefreshToken)

	// Protected routes
	user := app.Group("/user", middleware.JWTProtected())
	user.Get("/profile", controllers.UserProfile)
	user.Put("/update", controllers.UpdateUser)
	user.Delete("/delete", controllers.DeleteUser)
	user.Post("/logout", controllers.UserLogout)
}
