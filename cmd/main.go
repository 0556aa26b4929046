package main

import (
	"log"

	"github.com/craftfolio/cms/internal/auth"
	"github.com/craftfolio/cms/internal/cache"
	"github.com/craftfolio/cms/internal/config"
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/events"
	"github.com/craftfolio/cms/internal/media"
	"github.com/craftfolio/cms/internal/server"
	"github.com/craftfolio/cms/internal/settings"
	"github.com/craftfolio/cms/internal/slider"
	"github.com/craftfolio/cms/internal/storage"
	"github.com/craftfolio/cms/internal/user"
)

func main() {
	cfg := config.Load()

	if err := auth.ValidateJWTSecret(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secret validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== STORAGE SETUP ==========
	local, err := storage.NewLocal()
	if err != nil {
		log.Fatal("❌ Failed to initialize local storage:", err)
	}
	storage.SetBackend(local)
	log.Println("✅ Local storage initialized at ./uploads/")

	if cfg.UseS3 {
		if cfg.S3Bucket != "" && cfg.S3Region != "" {
			s3, err := storage.NewS3(cfg.S3Bucket, cfg.S3Region, cfg.CloudFrontURL)
			if err != nil {
				log.Println("⚠️  S3 initialization failed:", err)
				log.Println("⚠️  Falling back to local storage")
			} else {
				storage.SetBackend(s3)
				log.Println("✅ S3 initialized successfully")
				log.Printf("☁️  Using S3: %s (region: %s)", cfg.S3Bucket, cfg.S3Region)
			}
		} else {
			log.Println("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured")
			log.Println("⚠️  Falling back to local storage")
		}
	} else {
		log.Println("💾 Using LOCAL storage mode (./uploads/)")
	}

	// ========== CACHE SETUP ==========
	if cfg.RedisAddr != "" {
		listCache, err := cache.NewCatalog(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Println("⚠️  Redis unavailable, media listings served uncached:", err)
		} else {
			media.UseCache(listCache)
			defer listCache.Close()
			log.Printf("✅ Redis cache connected: %s", cfg.RedisAddr)
		}
	}

	// ========== EVENTS ==========
	bus := events.NewBus()
	settings.UseBus(bus)
	slider.UseBus(bus)

	// ========== SEED DEFAULT DATA ==========
	if err := user.SeedRoles(db); err != nil {
		log.Println("⚠️  Failed to seed roles:", err)
	} else {
		log.Println("✅ Default roles seeded")
	}

	// ========== START SERVER ==========
	app := server.New(db)

	log.Printf("🚀 Admin API starting on %s", cfg.ServerAddr)
	log.Printf("💾 Storage Mode: %s", storage.Mode())
	log.Printf("🔐 JWT Authentication: Enabled")

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
