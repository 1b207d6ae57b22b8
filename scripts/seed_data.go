//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/campuspool/campuspool/internal/config"
	"github.com/campuspool/campuspool/internal/database"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/campuspool/campuspool/internal/service"
)

var (
	firstNames = []string{"Ahmed", "Fatima", "Omar", "Layla", "Hassan", "Noor", "Yousif", "Mariam", "Khalid", "Sara",
		"Ali", "Zainab", "Ibrahim", "Huda", "Salman", "Amira", "Tariq", "Dana", "Majid", "Reem"}
	lastNames    = []string{"AlKhalifa", "Hussain", "Rahman", "Abdulla", "Mahmood", "Ebrahim", "Janahi", "Sharif", "Fakhro", "Kanoo"}
	destinations = []string{"University Main Gate", "Seef Mall", "City Centre", "Juffair", "Riffa", "Isa Town", "Saar", "Amwaj Islands"}
	vehicles     = []string{"Toyota Corolla", "Honda Civic", "Nissan Sunny", "Kia Sportage", "Hyundai Tucson"}
)

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db.DB)
	rideRepo := repository.NewRideRepository(db.DB)
	pricing := service.NewPricingService()

	// Create users
	log.Println("Creating 40 users...")
	riderIDs := make([]string, 0)
	driverIDs := make([]string, 0)
	for i := 0; i < 40; i++ {
		role := models.UserRoleRider
		if i%4 == 0 {
			role = models.UserRoleBoth
		}
		phone := fmt.Sprintf("33%06d", rand.Intn(1000000))
		user := &models.User{
			UniversityID: fmt.Sprintf("S%06d", 100000+i),
			Email:        fmt.Sprintf("s%06d@university.edu", 100000+i),
			FullName:     fmt.Sprintf("%s %s", firstNames[rand.Intn(len(firstNames))], lastNames[rand.Intn(len(lastNames))]),
			Phone:        &phone,
			Role:         role,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		if role == models.UserRoleBoth {
			driverIDs = append(driverIDs, user.ID)
		} else {
			riderIDs = append(riderIDs, user.ID)
		}
	}
	log.Printf("Created %d riders and %d drivers", len(riderIDs), len(driverIDs))

	// Create rides for the coming week
	log.Println("Creating 25 rides...")
	rideIDs := make([]string, 0)
	for i := 0; i < 25; i++ {
		seats := 1 + rand.Intn(4)
		base := models.MoneyFromUnits(int64(200 + rand.Intn(800))) // 2.00 - 10.00
		ride := &models.Ride{
			DriverID:      driverIDs[rand.Intn(len(driverIDs))],
			Vehicle:       vehicles[rand.Intn(len(vehicles))],
			Origin:        "University Main Gate",
			Destination:   destinations[rand.Intn(len(destinations))],
			DepartureTime: time.Now().Add(time.Duration(1+rand.Intn(168)) * time.Hour),
			TotalSeats:    seats,
			BasePrice:     base,
			PricePerSeat:  pricing.PerSeatPrice(base, seats),
		}

		if err := rideRepo.Create(ctx, ride); err != nil {
			log.Printf("Failed to create ride: %v", err)
			continue
		}
		rideIDs = append(rideIDs, ride.ID)
	}
	log.Printf("Created %d rides", len(rideIDs))

	// Summary
	log.Println("\n=== Seed Data Summary ===")
	log.Println("Sample Rider ID:", riderIDs[0])
	log.Println("Sample Driver ID:", driverIDs[0])
	log.Println("Sample Ride ID:", rideIDs[0])
	log.Println("\nYou can now test with these IDs!")
}
