package main

import (
	"errors"
	"net/http"

	"GiftRegistryAPI/internal/middleware"
	"GiftRegistryAPI/internal/model"
	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type updatePresentRequest struct {
	services.PresentInput
	Active bool `json:"active"`
}

type batchCreateRequest struct {
	Products []services.PresentInput `json:"products"`
}

type purchaseRequest struct {
	BuyerName  string `json:"buyerName"`
	BuyerEmail string `json:"buyerEmail"`
}

// registerPresentRoutes mounts the catalog endpoints.
// Public:
//
//	GET  /presents               -> list (?available=true filters sold/inactive)
//	GET  /presents/:id           -> get
//	POST /presents/:id/purchase  -> direct purchase confirmation
//
// Protected (admin):
//
//	POST   /presents        -> create
//	POST   /presents/batch  -> throttled batch create
//	PUT    /presents/:id    -> update
//	DELETE /presents/:id    -> hard delete
func registerPresentRoutes(g *echo.Group, cs *services.CatalogService, ss *services.SelectionService) {
	g.GET("/presents", func(c echo.Context) error {
		onlyAvailable := c.QueryParam("available") == "true"
		list, err := cs.ListPresents(c.Request().Context(), onlyAvailable)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if list == nil {
			list = []model.Present{}
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/presents/:id", func(c echo.Context) error {
		p, err := cs.GetPresent(c.Request().Context(), c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "present not found"})
		}
		return c.JSON(http.StatusOK, p)
	})

	g.POST("/presents/:id/purchase", func(c echo.Context) error {
		var req purchaseRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		p, err := ss.RegisterPurchase(c.Request().Context(), c.Param("id"), req.BuyerName, req.BuyerEmail)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPresentNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			case errors.Is(err, services.ErrAlreadySelected):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
		}
		return c.JSON(http.StatusOK, p)
	})

	admin := g.Group("", middleware.JWTMiddleware())

	admin.POST("/presents", func(c echo.Context) error {
		var req services.PresentInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}
		p, err := cs.CreatePresent(c.Request().Context(), req)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, p)
	})

	admin.POST("/presents/batch", func(c echo.Context) error {
		var req batchCreateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "the request must contain a list of products"})
		}
		created, err := cs.BatchCreate(c.Request().Context(), req.Products)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, created)
	})

	admin.PUT("/presents/:id", func(c echo.Context) error {
		var req updatePresentRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}
		p, err := cs.UpdatePresent(c.Request().Context(), c.Param("id"), req.PresentInput, req.Active)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, p)
	})

	admin.DELETE("/presents/:id", func(c echo.Context) error {
		if err := cs.DeletePresent(c.Request().Context(), c.Param("id")); err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	})
}
