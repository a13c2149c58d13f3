package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"github.com/ajbgithub/aivideos/config"
	_ "github.com/ajbgithub/aivideos/docs"
	"github.com/ajbgithub/aivideos/handlers"
	"github.com/ajbgithub/aivideos/internal/auth"
	"github.com/ajbgithub/aivideos/internal/blobstore"
	"github.com/ajbgithub/aivideos/internal/lookup"
	"github.com/ajbgithub/aivideos/internal/seeds"
	"github.com/ajbgithub/aivideos/internal/uploads"
	"github.com/ajbgithub/aivideos/internal/videostore"
	"github.com/ajbgithub/aivideos/middleware"
)

// @title AI Videos API
// @version 1.0
// @description Video gallery service: uploads, curation, and creator lookups.
// @BasePath /api/v1
func main() {
	settings := config.Load()
	config.InitLogger()

	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	videos := videostore.New(config.PostgrestClient)
	blobs := blobstore.New(config.SupabaseClient.Storage, settings.StorageBucket, config.Log)
	seedLib := seeds.NewLibrary()
	orchestrator := uploads.New(videos, blobs, config.Log, settings.MaxFileBytes)
	lookupSvc := lookup.New(videos, seedLib, config.Log)
	sessions := auth.NewGotrueProvider(config.SupabaseClient.Auth)

	handler := handlers.NewApplicationHandler(
		config.Log, videos, blobs, orchestrator, lookupSvc, seedLib, sessions, settings,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: int(settings.MaxFileBytes) + 1024*1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Session(sessions))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "AI Videos API is healthy",
		})
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	apiV1 := app.Group("/api/v1")

	apiV1.Get("/videos", handler.ListVideos)
	apiV1.Post("/videos", handler.UploadVideo)
	apiV1.Get("/videos/:id", handler.GetVideo)
	apiV1.Patch("/videos/:id", handler.UpdateVideo)
	apiV1.Delete("/videos/:id", handler.DeleteVideo)
	apiV1.Post("/videos/:id/view", handler.RecordView)
	apiV1.Get("/videos/:id/related", handler.RelatedVideos)
	apiV1.Patch("/videos/:id/top-rated", handler.ToggleTopRated)

	apiV1.Get("/categories", handler.ListCategories)

	apiV1.Get("/session", handler.GetSession)
	apiV1.Post("/session/signout", handler.SignOut)

	config.Log.WithField("port", settings.Port).Info("Starting AI Videos API")
	log.Fatal(app.Listen(":" + settings.Port))
}
