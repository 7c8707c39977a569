package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"opsdash/backend/internal/config"
	"opsdash/backend/internal/models"
	"opsdash/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "expire-invitations":
		// The read path expires invitations lazily; this sweep keeps the
		// table tidy and makes stale PENDING rows visible in reports.
		count, err := storageSvc.ExpireInvitations(time.Now())
		if err != nil {
			log.Fatalf("Error expiring invitations: %v", err)
		}
		fmt.Printf("Marked %d invitations as EXPIRED.\n", count)
	case "close-room":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin close-room <room_id>")
			os.Exit(1)
		}
		roomID := os.Args[2]
		if _, err := storageSvc.GetRoomByID(roomID); err != nil {
			log.Fatalf("Error loading room: %v", err)
		}
		if err := storageSvc.RemoveAllParticipants(roomID); err != nil {
			log.Fatalf("Error closing room: %v", err)
		}
		fmt.Printf("Room %s emptied; it remains in history but is inert.\n", roomID)
	case "seed-staff":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin seed-staff <display_name> <SUPER_ADMIN|CUSTOMER_CARE>")
			os.Exit(1)
		}
		role := os.Args[3]
		if role != config.StaffRoleSuperAdmin && role != config.StaffRoleCustomerCare {
			fmt.Println("Role must be SUPER_ADMIN or CUSTOMER_CARE.")
			os.Exit(1)
		}
		staff := models.StaffUser{DisplayName: os.Args[2], Role: role, IsActive: true}
		if err := db.Create(&staff).Error; err != nil {
			log.Fatalf("Error creating staff user: %v", err)
		}
		fmt.Printf("Staff user %s created with id %s.\n", staff.DisplayName, staff.ID)
	case "deactivate-staff":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate-staff <staff_id>")
			os.Exit(1)
		}
		err := db.Model(&models.StaffUser{}).Where("id = ?", os.Args[2]).
			Update("is_active", false).Error
		if err != nil {
			log.Fatalf("Error deactivating staff user: %v", err)
		}
		fmt.Printf("Staff user %s deactivated.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
