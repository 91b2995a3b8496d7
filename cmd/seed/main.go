// Seeds the catalog from a JSON file through the throttled batch-create
// path, and can bootstrap the first admin account.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	stripeext "GiftRegistryAPI/external/stripe"
	"GiftRegistryAPI/internal/db"
	"GiftRegistryAPI/internal/repository"
	"GiftRegistryAPI/internal/services"
)

func main() {
	file := flag.String("file", "", "JSON file with a {\"products\": [...]} payload")
	adminUser := flag.String("admin-user", "", "bootstrap admin username")
	adminPass := flag.String("admin-pass", "", "bootstrap admin password")
	flag.Parse()

	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	presentRepo := repository.NewPresentRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	var processor services.PaymentProcessor
	if sc, err := stripeext.NewClient(); err != nil {
		log.Printf("seeding without processor mirror: %v", err)
	} else {
		processor = sc
	}

	ctx := context.Background()

	if *adminUser != "" {
		adminSvc := services.NewAdminService(adminRepo, presentRepo, selectionRepo)
		if _, err := adminSvc.CreateAdmin(ctx, *adminUser, *adminPass); err != nil {
			log.Fatalf("creating admin: %v", err)
		}
		log.Printf("admin %s created", *adminUser)
	}

	if *file == "" {
		return
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	var payload struct {
		Products []services.PresentInput `json:"products"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Fatalf("parsing %s: %v", *file, err)
	}

	catalogSvc := services.NewCatalogService(presentRepo, processor)
	created, err := catalogSvc.BatchCreate(ctx, payload.Products)
	if err != nil {
		log.Fatalf("seeded %d presents, then: %v", len(created), err)
	}
	log.Printf("seeded %d presents", len(created))
}
