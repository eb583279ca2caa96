package domain

import "time"

type Flight struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FlightNumber   string    `json:"flight_number" gorm:"index;not null"`
	Source         string    `json:"source" gorm:"index;not null"`
	Destination    string    `json:"destination" gorm:"index;not null"`
	DepartureTime  time.Time `json:"departure_time" gorm:"index;not null"`
	ArrivalTime    time.Time `json:"arrival_time" gorm:"not null"`
	TotalSeats     int       `json:"total_seats" gorm:"not null"`
	AvailableSeats int       `json:"available_seats" gorm:"not null"`
	Price          float64   `json:"price" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Flight) TableName() string { return "flights" }
