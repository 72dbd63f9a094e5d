// Package api exposes the chat hub over HTTP and the websocket live channel.
package api

import (
	"chat-hub/auth"
	"chat-hub/contract"
	"chat-hub/observability"
	"chat-hub/services"
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LiveHub is the local registry of live sessions.
type LiveHub interface {
	Register(session contract.Session)
	Unregister(connID string) []string
	Join(connID, group string) bool
	Leave(connID, group string)
}

type Config struct {
	BasePath     string
	JWTSecret    []byte
	WriteTimeout time.Duration
}

type Server struct {
	log        *slog.Logger
	app        *fiber.App
	cfg        Config
	validate   *validator.Validate
	chats      services.IChatService
	messages   services.IMessageService
	presence   contract.IPresenceTracker
	hub        LiveHub
	monitoring *observability.MonitoringManager
}

func NewServer(log *slog.Logger, cfg Config, chats services.IChatService, messages services.IMessageService,
	presence contract.IPresenceTracker, hub LiveHub, monitoring *observability.MonitoringManager,
	gatherer prometheus.Gatherer) *Server {
	s := &Server{
		log:        log,
		cfg:        cfg,
		validate:   validator.New(),
		chats:      chats,
		messages:   messages,
		presence:   presence,
		hub:        hub,
		monitoring: monitoring,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "chat-hub",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	identity := auth.Identity(log, cfg.JWTSecret)
	s.app.Use("/ws", identity, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.serveSession))

	rooms := s.app.Group(cfg.BasePath+"/rooms", identity)
	rooms.Get("/", s.listPublicRooms)
	rooms.Post("/", s.createPublicRoom)
	rooms.Post("/event", s.getOrCreateEventRoom)
	rooms.Post("/direct", s.getOrCreateDirectRoom)
	rooms.Get("/user/:userId", s.listUserRooms)
	rooms.Get("/:roomId", s.getRoom)
	rooms.Post("/:roomId/join", s.joinRoom)
	rooms.Post("/:roomId/leave", s.leaveRoom)
	rooms.Get("/:roomId/messages", s.getMessages)
	rooms.Post("/:roomId/messages", s.postMessage)
	rooms.Get("/:roomId/messages/search", s.searchMessages)
	rooms.Delete("/:roomId/messages/:messageId", s.deleteMessage)
	rooms.Get("/:roomId/members", s.listMembers)
	rooms.Get("/:roomId/members/online", s.listOnlineMembers)
	rooms.Get("/:roomId/participants", s.listParticipants)
	return s
}

// App exposes the fiber application, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(address string) error {
	s.log.Info("Starting HTTP server", "address", address, "base_path", s.cfg.BasePath)
	return s.app.Listen(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"uptime":  s.monitoring.Uptime().Round(time.Second).String(),
		"process": s.monitoring.GetLatest(),
	})
}
