package main

import (
	"errors"
	"net/http"

	"GiftRegistryAPI/internal/middleware"
	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type adminCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerAdminRoutes mounts login plus the JWT-protected admin operations.
func registerAdminRoutes(g *echo.Group, as *services.AdminService) {
	a := g.Group("/admin")

	a.POST("/login", func(c echo.Context) error {
		var req adminCredentialsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		token, err := as.Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"token": token})
	})

	a.Use(middleware.JWTMiddleware())

	a.POST("", func(c echo.Context) error {
		var req adminCredentialsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		admin, err := as.CreateAdmin(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, admin)
	})

	a.GET("/dashboard", func(c echo.Context) error {
		stats, err := as.Dashboard(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, stats)
	})
}
