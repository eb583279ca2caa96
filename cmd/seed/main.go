// Seed populates a fresh database with an admin account and a set of sample
// flights for local development.
package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"skybook/internal/config"
	"skybook/internal/database"
	"skybook/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash admin password")
	}

	admin := domain.User{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        "admin@skybook.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	var existing domain.User
	if err := db.First(&existing, "email = ?", admin.Email).Error; err != nil {
		if err := db.Create(&admin).Error; err != nil {
			logrus.WithError(err).Fatal("failed to create admin user")
		}
		logrus.WithField("email", admin.Email).Info("admin user created")
	} else {
		logrus.WithField("email", admin.Email).Info("admin user already present")
	}

	var count int64
	db.Model(&domain.Flight{}).Count(&count)
	if count > 0 {
		logrus.WithField("flights", count).Info("flights already seeded")
		return
	}

	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	sample := []domain.Flight{
		flight("SB101", "Delhi", "Mumbai", base.Add(8*time.Hour), 2*time.Hour+15*time.Minute, 60, 4500),
		flight("SB102", "Mumbai", "Delhi", base.Add(12*time.Hour), 2*time.Hour+20*time.Minute, 60, 4700),
		flight("SB201", "Delhi", "Bangalore", base.Add(9*time.Hour), 2*time.Hour+45*time.Minute, 60, 5200),
		flight("SB202", "Bangalore", "Delhi", base.Add(15*time.Hour), 2*time.Hour+50*time.Minute, 60, 5100),
		flight("SB301", "Mumbai", "Goa", base.Add(10*time.Hour), time.Hour+10*time.Minute, 60, 2800),
		flight("SB302", "Goa", "Mumbai", base.Add(14*time.Hour), time.Hour+15*time.Minute, 60, 2900),
	}
	for _, f := range sample {
		if err := db.Create(&f).Error; err != nil {
			logrus.WithError(err).WithField("flight", f.FlightNumber).Fatal("failed to seed flight")
		}
	}

	logrus.WithField("flights", len(sample)).Info("seed complete")
}

func flight(number, source, destination string, departure time.Time, duration time.Duration, seats int, price float64) domain.Flight {
	return domain.Flight{
		ID:             uuid.NewString(),
		FlightNumber:   number,
		Source:         source,
		Destination:    destination,
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(duration),
		TotalSeats:     seats,
		AvailableSeats: seats,
		Price:          price,
	}
}
