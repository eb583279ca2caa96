package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID               string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string        `json:"user_id" gorm:"index;type:varchar(36);not null"`
	FlightID         string        `json:"flight_id" gorm:"index;type:varchar(36);not null"`
	PassengerName    string        `json:"passenger_name" gorm:"not null"`
	PassengerContact string        `json:"passenger_contact" gorm:"not null"`
	SeatNumber       string        `json:"seat_number" gorm:"type:varchar(8)"`
	Status           BookingStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	PricePaid        float64       `json:"price_paid"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Flight and User are joined in at read time; a booking row itself only
	// carries the references.
	Flight *Flight `json:"flight,omitempty" gorm:"foreignKey:FlightID"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Booking) TableName() string { return "bookings" }
