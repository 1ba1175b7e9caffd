package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/controllers"
	"github.com/pitchmate/pitchmate-server/routes"
	"github.com/pitchmate/pitchmate-server/services"
	"github.com/pitchmate/pitchmate-server/utils"
)

func sweepInterval(envKey string, def time.Duration) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func main() {
	godotenv.Load()

	logger := config.InitLogger()
	defer logger.Sync()

	config.ConnectDB()
	services.MustRegisterMetrics()

	// notification fan-out: DB row always, broker when configured
	var pub *services.RabbitPublisher
	if url := os.Getenv("RABBIT_URL"); url != "" {
		p, err := services.NewRabbitPublisher(url, "pitchmate.events")
		if err != nil {
			logger.Warn("rabbitmq unavailable, notifications stay DB-only", zap.Error(err))
		} else {
			pub = p
			defer pub.Close()
		}
	}
	notifier := services.NewDBNotifier(config.DB, pub, logger)

	// share codes live in Redis; dev setups fall back to the in-memory store
	var codes services.TTLStore = services.NewMemoryStore()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		codes = services.NewRedisStore(addr)
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./media"
	}
	archiveDir := os.Getenv("ARCHIVE_DIR")
	if archiveDir == "" {
		archiveDir = "./archive"
	}

	matchmaking := services.NewMatchmakingService(
		config.DB,
		services.NewReservationStore(config.DB),
		notifier,
		logger,
	)
	sweeper := services.NewSweeper(config.DB, utils.LocalMediaStorage{}, mediaDir, archiveDir, logger)
	controllers.Init(matchmaking, codes)

	stopHide := services.StartSweeper("hide_expired_posts",
		sweepInterval("SWEEP_INTERVAL_POSTS", 5*time.Minute), logger, sweeper.HideExpiredPosts)
	defer stopHide()
	stopArchive := services.StartSweeper("archive_expired_stories",
		sweepInterval("SWEEP_INTERVAL_STORIES", 10*time.Minute), logger, sweeper.ArchiveExpiredStories)
	defer stopArchive()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on port %s\n", port)
	r.Run(":" + port)
}
