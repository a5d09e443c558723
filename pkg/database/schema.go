package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS buses (
		id UUID PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		bus_name VARCHAR(255) NOT NULL,
		bus_type VARCHAR(50) NOT NULL DEFAULT '',
		total_seats INTEGER NOT NULL CHECK (total_seats > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id UUID PRIMARY KEY,
		from_city VARCHAR(100) NOT NULL,
		to_city VARCHAR(100) NOT NULL,
		boarding_points TEXT[] NOT NULL DEFAULT '{}',
		dropping_points TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS seats (
		id UUID PRIMARY KEY,
		bus_id UUID NOT NULL REFERENCES buses(id),
		seat_number VARCHAR(10) NOT NULL,
		seat_row INTEGER NOT NULL,
		seat_column INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (bus_id, seat_number)
	)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id UUID PRIMARY KEY,
		bus_id UUID NOT NULL REFERENCES buses(id),
		route_id UUID NOT NULL REFERENCES routes(id),
		journey_date DATE NOT NULL,
		start_time TIME NOT NULL,
		arrival_time TIME NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY,
		schedule_id UUID NOT NULL REFERENCES schedules(id),
		seat_id UUID NOT NULL REFERENCES seats(id),
		passenger_name VARCHAR(100) NOT NULL,
		mobile_number VARCHAR(20) NOT NULL,
		boarding_point VARCHAR(255) NOT NULL,
		dropping_point VARCHAR(255) NOT NULL,
		booked_at TIMESTAMPTZ NOT NULL,
		status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_schedules_journey ON schedules(journey_date, route_id)`,
	`CREATE INDEX IF NOT EXISTS idx_routes_cities ON routes(from_city, to_city)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_schedule ON tickets(schedule_id)`,
	// At most one live ticket per seat on a schedule.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_tickets_active_seat
		ON tickets(schedule_id, seat_id)
		WHERE status IN ('pending', 'confirmed')`,
}

// EnsureSchema creates the booking tables and indexes if they are missing.
func EnsureSchema(ctx context.Context, db Querier) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
