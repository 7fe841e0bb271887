package router

import (
	"gachaVault/internal/middleware"
	"gachaVault/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.GET("/:id", handler.GetUserByID, authRequired, middleware.SelfOrAdmin())
	users.PUT("/:id", handler.UpdateUser, authRequired, middleware.SelfOrAdmin())
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetPullRoutes(api *echo.Group, handler *rest.PullHandler) {
	pulls := api.Group("/pulls", middleware.AuthMiddleware())

	pulls.POST("", handler.RecordPull)
	pulls.POST("/import", handler.ImportPulls)
	pulls.GET("", handler.ListPulls)
}

func SetGachaRoutes(api *echo.Group, handler *rest.GachaHandler) {
	gacha := api.Group("/gacha", middleware.AuthMiddleware())

	gacha.GET("/state", handler.States)
	gacha.GET("/state/:category", handler.StateFor)
	gacha.GET("/stats/:category", handler.Statistics)
	gacha.GET("/history/:category", handler.RareHistory)
}
