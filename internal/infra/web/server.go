package web

import (
	"context"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"voice-chat/config"
	"voice-chat/internal/application"
)

const errEmptyMessage = "Empty message"

type chatRequest struct {
	Message string `json:"message"`
}

// Server is the HTTP front end over the chat service.
type Server struct {
	app       *fiber.App
	addr      string
	chat      application.Chatter
	maxTokens int
	log       *logrus.Entry
}

func NewServer(cfg config.HTTPConfig, chat application.Chatter, maxTokens int, log *logrus.Logger) *Server {
	s := &Server{
		addr:      cfg.Addr,
		chat:      chat,
		maxTokens: maxTokens,
		log:       log.WithField("component", "web"),
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	if cfg.Debug {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	app.Get("/health", s.handleHealth)
	app.Post("/api/chat", s.handleChat)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		app.Static("/", cfg.StaticDir)
	} else {
		s.log.WithField("dir", cfg.StaticDir).Warn("static directory not found, front page disabled")
	}

	s.app = app
	return s
}

// App exposes the router, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("HTTP server starting")
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	req := new(chatRequest)
	if err := json.Unmarshal(c.Body(), req); err != nil {
		s.log.WithError(err).Debug("unreadable chat body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errEmptyMessage})
	}

	reply, err := s.chat.Chat(c.UserContext(), message, s.maxTokens)
	if err != nil {
		s.log.WithError(err).Error("chat failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"reply": reply})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
