package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"landshare/internal/database"
	"landshare/internal/domain"
	"landshare/internal/domain/notification"
	"landshare/internal/repository"
)

// Seeds a local database with two parties, a staff user, a booking and an
// open dispute so the API can be exercised by hand.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "landshare_dev.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	bookings := repository.NewBookingRepository(db)
	disputes := repository.NewDisputeRepository(db)

	owner := &domain.User{Email: "owner@example.com", Role: domain.RoleLandowner, Name: "Olive Owner"}
	renter := &domain.User{Email: "renter@example.com", Role: domain.RoleRenter, Name: "Rene Renter"}
	staff := &domain.User{Email: "staff@example.com", Role: domain.RoleAdmin, Name: "Sam Staff"}
	for _, u := range []*domain.User{owner, renter, staff} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	start := time.Now().AddDate(0, 0, 7)
	b := &domain.Booking{
		ListingID:   1,
		OwnerID:     owner.ID,
		RenterID:    renter.ID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		TotalAmount: 500.00,
		Status:      domain.BookingConfirmed,
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatalf("seed booking: %v", err)
	}

	requested := 150.00
	d := &domain.Dispute{
		BookingID:       b.ID,
		FiledByID:       renter.ID,
		Reason:          domain.ReasonAccessIssues,
		Description:     "The gate code we received does not open the access gate.",
		RequestedAmount: &requested,
		Status:          domain.DisputeOpen,
		Version:         1,
		CreatedAt:       time.Now(),
	}
	if err := disputes.Create(ctx, d); err != nil {
		log.Fatalf("seed dispute: %v", err)
	}

	log.Printf("seeded: owner=%d renter=%d staff=%d booking=%d dispute=%d",
		owner.ID, renter.ID, staff.ID, b.ID, d.ID)
}
