package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/database"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/clients/postgres"
	"github.com/lumamarket/LocalMarketDiscovery/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating items before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE items`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	itemRepo := database.NewItemAdapter(pgClient)
	now := time.Now()

	// Listings around Lagos Island and Ikeja
	listings := []entities.Listing{
		{
			ID:         uuid.NewString(),
			Coordinate: entities.Coordinate{Latitude: 6.4531, Longitude: 3.3958},
			Title:      "Handwoven aso oke fabric",
			Category:   "textiles",
			Price:      45,
			Tags:       []string{"fabric", "handmade"},
			SellerName: "Balogun Market Textiles",
			CreatedAt:  now, UpdatedAt: now,
		},
		{
			ID:         uuid.NewString(),
			Coordinate: entities.Coordinate{Latitude: 6.5967, Longitude: 3.3421},
			Title:      "Clay cooking pots, set of three",
			Category:   "kitchen",
			Price:      25,
			Tags:       []string{"pottery", "cookware"},
			SellerName: "Ikeja Pottery Works",
			CreatedAt:  now, UpdatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Coordinate:  entities.Coordinate{Latitude: 6.4281, Longitude: 3.4219},
			Title:       "Refurbished road bicycle",
			Description: "Serviced, new tires, ready to ride",
			Category:    "sports",
			Price:       180,
			Tags:        []string{"bicycle", "refurbished"},
			SellerName:  "Victoria Island Cycles",
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			ID:         uuid.NewString(),
			Coordinate: entities.Coordinate{Latitude: 6.6018, Longitude: 3.3515},
			Title:      "Shea butter, 500g jar",
			Category:   "beauty",
			Price:      12,
			Tags:       []string{"skincare", "natural"},
			SellerName: "Agege Naturals",
			CreatedAt:  now, UpdatedAt: now,
		},
	}

	weekend := nextSaturday(now)
	eveningEnd := weekend.Add(8 * time.Hour)
	events := []entities.Event{
		{
			ID:          uuid.NewString(),
			Coordinate:  entities.Coordinate{Latitude: 6.4550, Longitude: 3.3841},
			Title:       "Balogun night market",
			Description: "Street food and crafts until late",
			EventType:   "market",
			Tags:        []string{"food", "crafts"},
			StartDate:   weekend,
			EndDate:     &eveningEnd,
			SellerName:  "Balogun Traders Association",
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			ID:         uuid.NewString(),
			Coordinate: entities.Coordinate{Latitude: 6.4498, Longitude: 3.4105},
			Title:      "Weekend farmers market",
			EventType:  "market",
			Tags:       []string{"produce", "organic"},
			StartDate:  weekend.Add(24 * time.Hour),
			CreatedAt:  now, UpdatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Coordinate:  entities.Coordinate{Latitude: 6.5950, Longitude: 3.3370},
			Title:       "Vinyl and cassette swap meetup",
			Description: "Bring records to trade",
			EventType:   "meetup",
			Tags:        []string{"music", "vintage"},
			StartDate:   weekend.Add(72 * time.Hour),
			CreatedAt:   now, UpdatedAt: now,
		},
	}

	seeded := 0
	for _, l := range listings {
		item := entities.NewListingItem(l)
		if err := itemRepo.Upsert(ctx, &item); err != nil {
			log.Printf("Failed to seed listing %s: %v", l.Title, err)
			continue
		}
		seeded++
	}
	for _, e := range events {
		item := entities.NewEventItem(e)
		if err := itemRepo.Upsert(ctx, &item); err != nil {
			log.Printf("Failed to seed event %s: %v", e.Title, err)
			continue
		}
		seeded++
	}

	log.Printf("Seeded %d items", seeded)
}

// nextSaturday returns 10:00 local time on the Saturday after t.
func nextSaturday(t time.Time) time.Time {
	days := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, d.Location())
}
