package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "datadetox/internal/server/middleware"
	"datadetox/internal/util"
	"datadetox/pkg/chat"
	"datadetox/pkg/layout"
	"datadetox/pkg/logger"
	"datadetox/pkg/neo4j"
	"datadetox/pkg/render"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chatClient := chat.NewClient(chat.NewClientParams{
		BaseURL: util.GetEnvString("AGENT_URL", "http://localhost:8000"),
	})

	var lineageClient *neo4j.Client
	if uri := util.GetEnv("NEO4J_URI"); uri != "" {
		client, err := neo4j.NewClient(ctx, neo4j.NewClientParams{
			URI:      uri,
			User:     util.GetEnv("NEO4J_USER"),
			Password: util.GetEnv("NEO4J_PASSWORD"),
		})
		if err != nil {
			logger.Fatal("Failed to connect to Neo4j", "err", err)
		}
		lineageClient = client
		defer lineageClient.Close(context.Background())
	}

	builder := render.NewBuilder(render.BuilderParams{
		Direction: layout.Direction(util.GetEnvString("LAYOUT_DIRECTION", string(layout.DirectionUp))),
	})
	runner := render.NewRunner(builder)

	e.Use(mid.AppContextMiddleware(chatClient, lineageClient, runner))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
