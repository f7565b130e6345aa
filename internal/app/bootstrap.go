package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/delivery/http/routes"
	v1 "job-portal/internal/delivery/http/routes/v1"
	"job-portal/internal/pkg/jwt"
	"job-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Fiber     *fiber.App
	container *Container
	log       *zap.Logger
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, container: c, log: c.Log}
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	verifier := jwt.NewHMACVerifier(c.Config.JWT.AccessSecret)

	health := handler.NewHealthHandler(c.DB, map[string]handler.Pinger{"redis": c.Cache})
	registry := routes.NewRegistry(
		health,
		middleware.NewAuthMiddleware(verifier),
		v1.Handlers{
			Notifications:    handler.NewNotificationHandler(c.Mailbox),
			PersonalizedJobs: handler.NewPersonalizedJobsHandler(c.PersonalizedJobs),
		},
		ws.NewHandler(c.Hub, verifier, c.Log),
	)
	registry.Register(app)
}

// Run starts the background machinery and serves HTTP until ctx is cancelled,
// then shuts everything down in reverse order.
func (a *App) Run(ctx context.Context) error {
	c := a.container

	addr, err := ListenAddr(c.Config.App.HTTPPort)
	if err != nil {
		return err
	}

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	listenCtx, cancelListen := context.WithCancel(bgCtx)
	defer cancelListen()

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		c.Hub.Run(bgCtx)
	}()
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		c.Listener.Run(listenCtx)
	}()
	c.Queue.Run(bgCtx)

	if err := c.Sweeper.Start(bgCtx); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", zap.String("addr", addr))
		serveErr <- a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			a.log.Error("http server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	c.Sweeper.Stop(shutdownCtx)

	// stop producing fan-outs, then drain the ones already queued
	cancelListen()
	<-listenerDone
	if err := c.Queue.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("queue close: %w", err))
	}

	cancelBg()
	<-hubDone

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
