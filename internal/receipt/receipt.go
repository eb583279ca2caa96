package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"skybook/internal/domain"
)

// Render produces the PDF itinerary receipt for a confirmed booking. The
// flight snapshot must be populated on the booking.
func Render(b *domain.Booking) ([]byte, error) {
	if b.Flight == nil {
		return nil, fmt.Errorf("booking %s has no flight snapshot", b.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "SkyBook Flight Receipt")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(12)
	pdf.Cell(190, 8, fmt.Sprintf("Booking ID: %s", b.ID))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Passenger: %s", b.PassengerName))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Flight: %s", b.Flight.FlightNumber))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Route: %s - %s", b.Flight.Source, b.Flight.Destination))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Departure: %s", b.Flight.DepartureTime.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Seat: %s", b.SeatNumber))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Amount Paid: %.2f USD", b.PricePaid))
	pdf.Ln(8)
	pdf.Cell(190, 8, fmt.Sprintf("Status: %s", b.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
