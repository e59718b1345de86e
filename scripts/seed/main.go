// Seeder: wipes and repopulates the database with sample data.
//
//	go run ./scripts/seed -users 10 -listings 20 -bookings 15 -reviews 25
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"stayhub/config"
	"stayhub/internal/models"
	"stayhub/pkg/database"
)

var cities = []string{"Addis Ababa", "Nairobi", "Cape Town", "Zanzibar", "Marrakech", "Accra"}

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	listingCount := flag.Int("listings", 20, "number of listings to create")
	bookingCount := flag.Int("bookings", 15, "number of bookings to create")
	reviewCount := flag.Int("reviews", 25, "number of reviews to create")
	flag.Parse()

	cfg := config.Load()
	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("clearing existing data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM listings")
	db.Exec("DELETE FROM users")

	users := make([]models.User, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		u := models.User{
			Username:  fmt.Sprintf("traveler%02d", i+1),
			Email:     fmt.Sprintf("traveler%02d@example.com", i+1),
			FirstName: fmt.Sprintf("Guest%d", i+1),
			LastName:  "Example",
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("seed user: %v", err)
		}
		users = append(users, u)
	}
	log.Printf("created %d users", len(users))

	listings := make([]models.Listing, 0, *listingCount)
	for i := 0; i < *listingCount; i++ {
		host := users[rand.Intn(len(users))]
		l := models.Listing{
			HostID:        host.ID,
			Name:          fmt.Sprintf("Cozy Stay #%d", i+1),
			Description:   "A comfortable place close to everything.",
			Address:       fmt.Sprintf("%d Palm Street", i+1),
			City:          cities[rand.Intn(len(cities))],
			Country:       "Wonderland",
			PricePerNight: float64(40+rand.Intn(200)) + 0.99,
			MaxGuests:     1 + rand.Intn(6),
			Bedrooms:      1 + rand.Intn(4),
		}
		if err := db.Create(&l).Error; err != nil {
			log.Fatalf("seed listing: %v", err)
		}
		listings = append(listings, l)
	}
	log.Printf("created %d listings", len(listings))

	// Consecutive windows per listing keep the seeded bookings free of
	// overlaps without re-running the validator.
	nextStart := make(map[uuid.UUID]time.Time)
	created := 0
	for i := 0; i < *bookingCount; i++ {
		listing := listings[rand.Intn(len(listings))]
		guest := users[rand.Intn(len(users))]

		start, ok := nextStart[listing.ID]
		if !ok {
			start = time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
		}
		nights := 2 + rand.Intn(5)
		end := start.AddDate(0, 0, nights)
		nextStart[listing.ID] = end

		b := models.Booking{
			ListingID:  listing.ID,
			GuestID:    guest.ID,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: listing.PricePerNight * float64(nights),
		}
		if err := db.Create(&b).Error; err != nil {
			log.Fatalf("seed booking: %v", err)
		}
		created++
	}
	log.Printf("created %d bookings", created)

	reviewed := make(map[[2]uuid.UUID]bool)
	created = 0
	for created < *reviewCount && len(reviewed) < len(users)*len(listings) {
		listing := listings[rand.Intn(len(listings))]
		user := users[rand.Intn(len(users))]
		key := [2]uuid.UUID{listing.ID, user.ID}
		if reviewed[key] {
			continue
		}
		reviewed[key] = true

		r := models.Review{
			ListingID: listing.ID,
			UserID:    user.ID,
			Rating:    1 + rand.Intn(5),
			Comment:   "Lovely stay, would book again.",
		}
		if err := db.Create(&r).Error; err != nil {
			log.Fatalf("seed review: %v", err)
		}
		created++
	}
	log.Printf("created %d reviews", created)

	log.Println("seeding complete")
}
