package main

import (
	"errors"
	"io"
	"net/http"

	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type customerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createIntentRequest struct {
	ProductIDs   []string     `json:"productIds"`
	CustomerInfo customerInfo `json:"customerInfo"`
}

type checkoutSessionRequest struct {
	ProductIDs []string `json:"productIds"`
}

func paymentErrorStatus(err error) (int, string) {
	var pe *services.PaymentError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError, services.ErrTypeServer
	}
	switch pe.Type {
	case services.ErrTypeValidation:
		return http.StatusBadRequest, pe.Type
	case services.ErrTypeAuthentication:
		return http.StatusUnauthorized, pe.Type
	default:
		return http.StatusInternalServerError, pe.Type
	}
}

// registerPaymentRoutes mounts the processor-facing endpoints. The webhook
// reads the raw body so the processor signature covers the exact payload.
func registerPaymentRoutes(g *echo.Group, ps *services.PaymentService) {
	p := g.Group("/payments")

	p.POST("/intent", func(c echo.Context) error {
		var req createIntentRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid payload",
				"type":  services.ErrTypeValidation,
			})
		}

		res, err := ps.CreatePaymentIntent(
			c.Request().Context(),
			req.ProductIDs,
			req.CustomerInfo.Name,
			req.CustomerInfo.Email,
		)
		if err != nil {
			status, errType := paymentErrorStatus(err)
			return c.JSON(status, echo.Map{"error": err.Error(), "type": errType})
		}
		return c.JSON(http.StatusOK, res)
	})

	p.POST("/checkout-session", func(c echo.Context) error {
		var req checkoutSessionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid payload",
				"type":  services.ErrTypeValidation,
			})
		}

		url, err := ps.CreateCheckoutSession(c.Request().Context(), req.ProductIDs)
		if err != nil {
			status, errType := paymentErrorStatus(err)
			return c.JSON(status, echo.Map{"error": err.Error(), "type": errType})
		}
		return c.JSON(http.StatusOK, echo.Map{"url": url})
	})

	p.POST("/webhook", func(c echo.Context) error {
		payload, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable payload"})
		}

		sig := c.Request().Header.Get("Stripe-Signature")
		if err := ps.HandleWebhook(c.Request().Context(), payload, sig); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	})

	p.GET("/health", func(c echo.Context) error {
		if err := ps.ProcessorStatus(c.Request().Context()); err != nil {
			status, errType := paymentErrorStatus(err)
			return c.JSON(status, echo.Map{
				"status": "error",
				"error":  err.Error(),
				"type":   errType,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
	})
}
