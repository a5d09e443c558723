package entity

import "slices"

type Route struct {
	Base
	FromCity       string   `db:"from_city"`
	ToCity         string   `db:"to_city"`
	BoardingPoints []string `db:"boarding_points"`
	DroppingPoints []string `db:"dropping_points"`
}

func (r *Route) HasBoardingPoint(point string) bool {
	return slices.Contains(r.BoardingPoints, point)
}

func (r *Route) HasDroppingPoint(point string) bool {
	return slices.Contains(r.DroppingPoints, point)
}
