package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"datadetox/internal/server/middleware"
	"datadetox/pkg/chat"
	"datadetox/pkg/render"
)

// PostSearchHandler proxies a query to the agent backend and re-streams
// the decoded events as newline-delimited JSON. When the stream's
// trailing metadata carries a lineage payload, the graph pipeline runs
// on it and the positioned graph goes out as the final event.
func PostSearchHandler(c echo.Context) error {
	type searchParams struct {
		Query string `json:"query" validate:"required"`
	}

	type streamEvent struct {
		Type    string        `json:"type"`
		Content string        `json:"content,omitempty"`
		Status  string        `json:"status,omitempty"`
		Result  string        `json:"result,omitempty"`
		Graph   *render.Graph `json:"graph,omitempty"`
		Message string        `json:"message,omitempty"`
	}

	params := new(searchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	events, err := app.Chat.Search(ctx, params.Query)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "Agent backend unavailable"})
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(http.StatusOK)
	enc := json.NewEncoder(c.Response())

	for event := range events {
		switch event.Type {
		case chat.EventContent:
			if err := enc.Encode(streamEvent{Type: "content", Content: event.Content}); err != nil {
				return err
			}
		case chat.EventStatus:
			if err := enc.Encode(streamEvent{Type: "status", Status: event.Status}); err != nil {
				return err
			}
		case chat.EventMetadata:
			resp := streamEvent{Type: "graph", Result: event.Metadata.Result}
			if event.Metadata.Neo4jData != nil {
				graph := app.Runner.RunSync(ctx, *event.Metadata.Neo4jData, event.Metadata.DatasetRisk)
				resp.Graph = &graph
			}
			if err := enc.Encode(resp); err != nil {
				return err
			}
		case chat.EventError:
			if err := enc.Encode(streamEvent{Type: "error", Message: event.Err.Error()}); err != nil {
				return err
			}
			c.Response().Flush()
			return nil
		}
		c.Response().Flush()
	}

	return nil
}
