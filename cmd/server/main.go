package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"backend-queuebot/internal/config"
	"backend-queuebot/internal/http/handler"
	"backend-queuebot/internal/http/middleware"
	"backend-queuebot/internal/line"
	"backend-queuebot/internal/queue"
	"backend-queuebot/internal/realtime"
	"backend-queuebot/internal/repository"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
	})

	config.LoadEnv()
	config.InitRedis()
	config.InitDB()
	defer config.CloseDB()

	passcodeHash := []byte(os.Getenv("ADMIN_PASSCODE_HASH"))
	if len(passcodeHash) == 0 {
		log.Fatal("ADMIN_PASSCODE_HASH wajib diisi (bcrypt hash)")
	}

	queueRepo := repository.NewQueueRepo(config.DB)
	staffRepo := repository.NewStaffRepo(config.DB)
	sessions := repository.NewAdminSessionRepo(config.Redis, time.Hour)
	engine := queue.New(queueRepo, staffRepo, config.QueueLocation())
	bot := line.NewClient(os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"))

	webhook := handler.NewWebhookHandler(
		engine, staffRepo, bot, sessions,
		config.SeenWebhookEvent,
		os.Getenv("LINE_CHANNEL_SECRET"),
		passcodeHash,
	)
	staff := handler.NewStaffHandler(staffRepo)
	admin := handler.NewAdminHandler(engine, passcodeHash)
	display := handler.NewDisplayHandler(engine, staffRepo, queueRepo)

	go realtime.RunQueueBroadcaster()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Queuebot API jalan",
		})
	})

	// LINE webhook (signature dicek di handler)
	app.Post("/webhook", webhook.Handle)

	// Public
	app.Get("/api/staff", staff.GetAllStaff)
	app.Get("/api/staff/:id", staff.GetStaffByID)
	app.Get("/api/display", display.GetQueueDisplay)

	// Display websocket per staff
	app.Use("/ws", handler.UpgradeWebSocket)
	app.Get("/ws/queue/:staffId", websocket.New(handler.QueueWebSocket(engine)))

	// Admin dashboard
	app.Post("/admin/login", admin.Login)

	api := app.Group("/api", middleware.JWTAuth(), middleware.RoleAuth("admin"))
	api.Post("/staff", staff.CreateStaff)
	api.Get("/queues/staff/:staffId", admin.GetStaffQueue)
	api.Put("/queues/:id/status", admin.UpdateQueueStatus)

	addr := os.Getenv("APP_HOST") + ":" + config.GetEnv("APP_PORT", "3000")
	log.Println("Server jalan di", addr)
	log.Fatal(app.Listen(addr))
}
