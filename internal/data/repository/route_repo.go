package repository

import (
	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

var routeTable = table[entity.Route]{
	name:    "routes",
	columns: []string{"id", "from_city", "to_city", "boarding_points", "dropping_points", "created_at", "updated_at"},
	bind: func(r *entity.Route) ([]any, func()) {
		return []any{&r.ID, &r.FromCity, &r.ToCity, &r.BoardingPoints, &r.DroppingPoints, &r.CreatedAt, &r.UpdatedAt}, nil
	},
	values: func(r *entity.Route) []any {
		return []any{r.ID, r.FromCity, r.ToCity, nonNil(r.BoardingPoints), nonNil(r.DroppingPoints), r.CreatedAt, r.UpdatedAt}
	},
	id: func(r *entity.Route) uuid.UUID { return r.ID },
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(points []string) []string {
	if points == nil {
		return []string{}
	}
	return points
}
