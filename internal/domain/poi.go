// SPDX-License-Identifier: MIT

// Package domain holds the core data model of the itinerary decision core:
// POIs, transport edges, verification and quality scores, candidate options,
// and per-session planning state.
package domain

import "github.com/tripstep/tripstep/internal/geo"

// Category classifies a POI. The set is closed; category-parameterised
// behaviour (time windows, quality heuristics) lives in small tables keyed
// by these values.
type Category string

const (
	CategoryAttraction    Category = "attraction"
	CategoryRestaurant    Category = "restaurant"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryHotel         Category = "hotel"
	CategoryTransportHub  Category = "transport_hub"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryRestaurant, CategoryShopping,
		CategoryEntertainment, CategoryHotel, CategoryTransportHub:
		return true
	}
	return false
}

// POI is an addressable destination. Immutable once created; owned by the
// POI store.
type POI struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Category      Category `json:"category"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	AvgVisitHours float64  `json:"avg_visit_hours"`
	TicketPrice   float64  `json:"ticket_price"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"review_count"`
}

// Point returns the POI coordinate.
func (p POI) Point() geo.Point {
	return geo.Point{Lat: p.Lat, Lon: p.Lon}
}
