// Package serve exposes style conversion as HTTP service.
package serve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"stylebridge/common"
	"stylebridge/config"
	"stylebridge/convert"
	"stylebridge/ir"
	"stylebridge/state"
)

const shutdownTimeout = 5 * time.Second

// Server converts styles posted to it. Every request is converted
// independently, nothing is kept between requests.
type Server struct {
	app *fiber.App
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log.Named("serve")}
	s.app = fiber.New(fiber.Config{
		AppName:               "stylebridge",
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())

	api := s.app.Group("/api")
	api.Get("/health", s.health)
	api.Post("/convert/:format", s.authorize, s.convert)
	return s
}

// App gives access to underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves requests until context is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				s.log.Warn("Unable to shutdown gracefully", zap.Error(err))
			}
		case <-done:
		}
	}()

	s.log.Info("Listening", zap.String("address", addr))
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("unable to serve on %s: %w", addr, err)
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) authorize(c *fiber.Ctx) error {
	token := s.cfg.Server.Token.Value()
	if token == "" {
		return c.Next()
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if got, ok := strings.CutPrefix(auth, "Bearer "); !ok || got != token {
		return fail(c, fiber.StatusUnauthorized, "missing or invalid bearer token")
	}
	return c.Next()
}

func (s *Server) convert(c *fiber.Ctx) error {
	target, err := common.ParseTargetFmt(c.Params("format"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}

	ext := ".json"
	if strings.Contains(c.Get(fiber.HeaderContentType), "yaml") {
		ext = ".yaml"
	}
	style, err := ir.Read(c.Body(), ext)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	start := time.Now()
	out, err := convert.Translate(style, target, s.cfg, s.log)
	if err != nil {
		if errors.Is(err, ir.ErrStructure) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	s.log.Debug("Style converted",
		zap.String("style", style.Name), zap.Stringer("format", target),
		zap.Int("warnings", len(out.Warnings)), zap.Duration("elapsed", time.Since(start)))

	return c.JSON(newResponse(out))
}

// errorHandler renders framework errors (body too large, unknown route) the
// same way handlers report theirs.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return fail(c, code, err.Error())
}

func fail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": msg,
	})
}

// Run is the action of serve subcommand.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	addr := env.Cfg.Server.Listen
	if cmd.IsSet("listen") {
		addr = cmd.String("listen")
	}
	if env.Cfg.Server.Token.Value() == "" {
		env.Log.Warn("Serving without authorization token")
	}
	return New(env.Cfg, env.Log).Listen(ctx, addr)
}
