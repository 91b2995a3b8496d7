package main

import (
	"errors"
	"net/http"

	"GiftRegistryAPI/internal/middleware"
	"GiftRegistryAPI/internal/model"
	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type createSelectionRequest struct {
	PresentID string `json:"present_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// registerSelectionRoutes mounts the gift-selection endpoints.
// Public:
//
//	POST /selections              -> register a selection (same flow as purchase)
//	GET  /selections/email/:email -> selections made by one guest
//
// Protected (admin):
//
//	GET /selections -> all selections with present details
func registerSelectionRoutes(g *echo.Group, ss *services.SelectionService) {
	g.POST("/selections", func(c echo.Context) error {
		var req createSelectionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		p, err := ss.RegisterPurchase(c.Request().Context(), req.PresentID, req.Name, req.Email)
		if err != nil {
			if errors.Is(err, services.ErrPresentNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, p)
	})

	g.GET("/selections/email/:email", func(c echo.Context) error {
		list, err := ss.ListSelectionsByEmail(c.Request().Context(), c.Param("email"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if list == nil {
			list = []model.SelectionWithPresent{}
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/selections", func(c echo.Context) error {
		list, err := ss.ListSelections(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if list == nil {
			list = []model.SelectionWithPresent{}
		}
		return c.JSON(http.StatusOK, list)
	}, middleware.JWTMiddleware())
}
