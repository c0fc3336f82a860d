package repository

import (
	"context"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const (
	insertLocationQuery = `
						INSERT INTO order_locations (order_id, partner_id, latitude, longitude, accuracy, speed, heading)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, created_at
`
	selectLocationsQuery = `
						SELECT id, order_id, partner_id, latitude, longitude, accuracy, speed, heading, created_at
						FROM order_locations
						WHERE order_id = $1
						ORDER BY created_at DESC, id DESC
						LIMIT $2
`
)

// LocationRepository implements LocationRepository interface
type LocationRepository struct {
	db *postgres.DB
}

// NewLocationRepository creates new LocationRepository instance
func NewLocationRepository(db *postgres.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// CreateLocation inserts delivery partner position
func (lr *LocationRepository) CreateLocation(ctx context.Context, l *models.LocationUpdate) error {
	return lr.db.QueryRow(ctx, insertLocationQuery, l.OrderID, l.PartnerID, l.Latitude, l.Longitude,
		l.Accuracy, l.Speed, l.Heading).Scan(&l.ID, &l.CreatedAt)
}

// ListLocations returns latest positions of order, newest first
func (lr *LocationRepository) ListLocations(ctx context.Context, orderID uint64, limit int) ([]models.LocationUpdate, error) {
	rows, err := lr.db.Query(ctx, selectLocationsQuery, orderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []models.LocationUpdate{}
	for rows.Next() {
		l := models.LocationUpdate{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.PartnerID, &l.Latitude, &l.Longitude, &l.Accuracy,
			&l.Speed, &l.Heading, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}
