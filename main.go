package main

import (
	"log"
	"os"

	"streakOddsEngine/api"
	"streakOddsEngine/models"
	"streakOddsEngine/scheduler"
	"streakOddsEngine/services"
	"streakOddsEngine/services/extService"

	"github.com/joho/godotenv"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment")
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatalf("DATABASE_URL not set in environment variables")
	}

	u, err := dburl.Parse(connString)
	if err != nil {
		log.Fatalf("invalid DATABASE_URL: %v", err)
	}

	db, err = gorm.Open(mysql.Open(u.DSN+"?charset=utf8mb4&parseTime=True&loc=Local"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Bet{},
		&models.BetSelection{},
		&models.Parlay{},
		&models.StreakEvent{},
		&models.ErrorLog{},
		&models.Migration{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func main() {
	if err := services.RunLongestStreakBackfill(db); err != nil {
		log.Printf("longest streak backfill failed: %v", err)
	}

	provider := extService.NewEspnProvider()

	scheduler.SetupCron(db, provider)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := api.NewRouter(db, provider)
	log.Printf("Listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
