package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/proposalhub-dev/proposalhub/db"
	"github.com/proposalhub-dev/proposalhub/internal/auth"
	"github.com/proposalhub-dev/proposalhub/internal/handlers"
	"github.com/proposalhub-dev/proposalhub/internal/llm"
	"github.com/proposalhub-dev/proposalhub/internal/notify"
	"github.com/proposalhub-dev/proposalhub/internal/router"
	"github.com/proposalhub-dev/proposalhub/internal/scheduler"
	"github.com/proposalhub-dev/proposalhub/internal/store"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	notifier := notify.NewNotifier()
	workflowSvc := workflow.NewService(store.New(db.DB), llm.NewClient())
	handlers.Init(workflowSvc, notifier)

	reminders := scheduler.NewScheduler(notifier)
	reminders.Start()
	defer reminders.Stop()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
