// Package seatmap derives the display seat grid from aggregate seat counts.
// There is no per-seat ledger anywhere in the system: occupancy is inferred
// positionally, so the grid is a presentation approximation, not a
// reservation authority.
package seatmap

import "strconv"

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatOccupied  SeatState = "occupied"
)

type Seat struct {
	ID    string
	Row   int
	Col   string
	State SeatState
}

const (
	Rows = 10
	Cols = 6
)

var columns = [Cols]string{"A", "B", "C", "D", "E", "F"}

// Project maps (totalSeats, availableSeats) to the fixed 10x6 grid in
// row-major order, marking the first totalSeats-availableSeats seats
// occupied. The grid size is fixed regardless of totalSeats: flights above
// 60 seats are under-represented.
func Project(totalSeats, availableSeats int) []Seat {
	occupied := totalSeats - availableSeats
	if occupied < 0 {
		occupied = 0
	}

	seats := make([]Seat, 0, Rows*Cols)
	for row := 1; row <= Rows; row++ {
		for col := 0; col < Cols; col++ {
			idx := (row-1)*Cols + col
			state := SeatAvailable
			if idx < occupied {
				state = SeatOccupied
			}
			seats = append(seats, Seat{
				ID:    strconv.Itoa(row) + columns[col],
				Row:   row,
				Col:   columns[col],
				State: state,
			})
		}
	}
	return seats
}

// Occupied reports how many seats Project would mark occupied.
func Occupied(totalSeats, availableSeats int) int {
	occupied := totalSeats - availableSeats
	if occupied < 0 {
		return 0
	}
	return occupied
}
