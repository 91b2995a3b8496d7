package main

import (
	"log"
	"net/http"
	"os"

	"GiftRegistryAPI/external/abstractapi"
	"GiftRegistryAPI/external/resend"
	stripeext "GiftRegistryAPI/external/stripe"

	"GiftRegistryAPI/internal/db"
	"GiftRegistryAPI/internal/repository"
	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if os.Getenv("USE_EMAIL_REPUTATION") == "true" {
		emailValidator, err = abstractapi.NewAbstractReputationValidator()
		if err != nil {
			log.Fatal(err)
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	var mailer services.Mailer
	if m, err := resend.NewResendMailer("GiftRegistry<onboarding@resend.dev>"); err != nil {
		log.Printf("confirmation mail disabled: %v", err)
	} else {
		mailer = m
	}

	var (
		processor services.PaymentProcessor
		verifier  services.WebhookVerifier
	)
	if sc, err := stripeext.NewClient(); err != nil {
		log.Printf("payment processor disabled: %v", err)
	} else {
		processor = sc
		verifier = sc
	}

	// ======================
	// REPOSITORIES
	// ======================
	presentRepo := repository.NewPresentRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ======================
	// SERVICES
	// ======================
	catalogSvc := services.NewCatalogService(presentRepo, processor)
	selectionSvc := services.NewSelectionService(selectionRepo, presentRepo, emailValidator, mailer)
	paymentSvc := services.NewPaymentService(presentRepo, processor, verifier, os.Getenv("PAYMENT_CURRENCY"))
	adminSvc := services.NewAdminService(adminRepo, presentRepo, selectionRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerPresentRoutes(api, catalogSvc, selectionSvc)
	registerSelectionRoutes(api, selectionSvc)
	registerPaymentRoutes(api, paymentSvc)
	registerAdminRoutes(api, adminSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
