package domain

import "time"

type Hotel struct {
	ID              int64
	Name            string
	Lat, Lon        float64
	DateEstablished *time.Time
	ManagerID       int64 // weak reference; a manager may own several hotels
}

// HotelSummary is what nearby searches return.
type HotelSummary struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	DateEstablished *time.Time `json:"date_established,omitempty"`
	Distance        float64    `json:"distance"`
}

type Room struct {
	HotelID    int64   `json:"hotel_id"`
	RoomNumber int64   `json:"room_number"`
	Price      float64 `json:"price"`
	ImageURL   *string `json:"image_url,omitempty"`
}

type Coords struct{ Lat, Lon float64 }
