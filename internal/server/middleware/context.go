package middleware

import (
	"github.com/labstack/echo/v4"

	"datadetox/pkg/chat"
	"datadetox/pkg/neo4j"
	"datadetox/pkg/render"
)

type App struct {
	Chat    *chat.Client
	Lineage *neo4j.Client
	Runner  *render.Runner
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(
	chatClient *chat.Client,
	lineageClient *neo4j.Client,
	runner *render.Runner,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				Chat:    chatClient,
				Lineage: lineageClient,
				Runner:  runner,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
