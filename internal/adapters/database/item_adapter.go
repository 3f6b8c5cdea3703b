package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/repositories"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/clients/postgres"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

var itemColumns = []interface{}{
	"id", "kind", "title", "description", "category", "event_type",
	"price", "tags", "latitude", "longitude", "seller_name",
	"start_date", "end_date", "is_active", "created_at", "updated_at",
}

// ItemAdapter implements ItemRepository over the items table. Listings and
// events share one table discriminated by the kind column; variant-only
// columns are nullable.
type ItemAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewItemAdapter creates a new item adapter
func NewItemAdapter(client *postgres.Client) repositories.ItemRepository {
	return &ItemAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves an item by ID
func (a *ItemAdapter) GetByID(ctx context.Context, id string) (*entities.DiscoverableItem, error) {
	query, args, err := a.db.Select(itemColumns...).
		From("items").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item, err := scanItem(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get item", err)
	}

	return item, nil
}

// ListActive retrieves all active items, used to hydrate the discovery index
// at startup.
func (a *ItemAdapter) ListActive(ctx context.Context) ([]*entities.DiscoverableItem, error) {
	query, args, err := a.db.Select(itemColumns...).
		From("items").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list items", err)
	}
	defer rows.Close()

	var items []*entities.DiscoverableItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate items", err)
	}

	return items, nil
}

// Upsert inserts an item or replaces the stored row for its id.
func (a *ItemAdapter) Upsert(ctx context.Context, item *entities.DiscoverableItem) error {
	if item == nil || !item.Valid() {
		return apperrors.NewValidationError("item is malformed")
	}

	record := itemRecord(item)

	query, args, err := a.db.Insert("items").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert item", err)
	}

	return nil
}

// Remove deactivates an item (soft delete)
func (a *ItemAdapter) Remove(ctx context.Context, id string) error {
	query, args, err := a.db.Update("items").
		Set(goqu.Record{
			"is_active":  false,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build remove query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to remove item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("item with id %s not found", id))
	}

	return nil
}

func itemRecord(item *entities.DiscoverableItem) goqu.Record {
	record := goqu.Record{
		"id":        item.ID(),
		"kind":      string(item.Kind),
		"title":     item.Title(),
		"tags":      pq.Array(item.Tags()),
		"latitude":  item.Coordinate().Latitude,
		"longitude": item.Coordinate().Longitude,
		"is_active": true,
	}

	switch item.Kind {
	case entities.KindListing:
		l := item.Listing
		record["description"] = sql.NullString{String: l.Description, Valid: l.Description != ""}
		record["category"] = sql.NullString{String: l.Category, Valid: l.Category != ""}
		record["event_type"] = sql.NullString{}
		record["price"] = sql.NullFloat64{Float64: l.Price, Valid: true}
		record["seller_name"] = sql.NullString{String: l.SellerName, Valid: l.SellerName != ""}
		record["start_date"] = sql.NullTime{}
		record["end_date"] = sql.NullTime{}
		record["created_at"] = l.CreatedAt
		record["updated_at"] = l.UpdatedAt
	case entities.KindEvent:
		e := item.Event
		record["description"] = sql.NullString{String: e.Description, Valid: e.Description != ""}
		record["category"] = sql.NullString{}
		record["event_type"] = sql.NullString{String: e.EventType, Valid: e.EventType != ""}
		record["price"] = sql.NullFloat64{}
		record["seller_name"] = sql.NullString{String: e.SellerName, Valid: e.SellerName != ""}
		record["start_date"] = sql.NullTime{Time: e.StartDate, Valid: !e.StartDate.IsZero()}
		if e.EndDate != nil {
			record["end_date"] = sql.NullTime{Time: *e.EndDate, Valid: true}
		} else {
			record["end_date"] = sql.NullTime{}
		}
		record["created_at"] = e.CreatedAt
		record["updated_at"] = e.UpdatedAt
	}

	return record
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*entities.DiscoverableItem, error) {
	var (
		id, kind, title      string
		description          sql.NullString
		category, eventType  sql.NullString
		price                sql.NullFloat64
		tags                 []string
		latitude, longitude  float64
		sellerName           sql.NullString
		startDate, endDate   sql.NullTime
		isActive             bool
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &kind, &title, &description, &category, &eventType,
		&price, pq.Array(&tags), &latitude, &longitude, &sellerName,
		&startDate, &endDate, &isActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	coord := entities.Coordinate{Latitude: latitude, Longitude: longitude}

	switch entities.ItemKind(kind) {
	case entities.KindListing:
		item := entities.NewListingItem(entities.Listing{
			ID:          id,
			Coordinate:  coord,
			Title:       title,
			Description: description.String,
			Price:       price.Float64,
			Category:    category.String,
			Tags:        tags,
			SellerName:  sellerName.String,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
		return &item, nil
	case entities.KindEvent:
		event := entities.Event{
			ID:          id,
			Coordinate:  coord,
			Title:       title,
			Description: description.String,
			EventType:   eventType.String,
			Tags:        tags,
			SellerName:  sellerName.String,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		}
		if startDate.Valid {
			event.StartDate = startDate.Time
		}
		if endDate.Valid {
			end := endDate.Time
			event.EndDate = &end
		}
		item := entities.NewEventItem(event)
		return &item, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q for id %s", kind, id)
	}
}
