package routes

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"datadetox/internal/server/middleware"
	"datadetox/pkg/lineage"
	"datadetox/pkg/logger"
)

// GetLineageHandler fetches the lineage subgraph for one or more models
// straight from Neo4j and returns the positioned graph. Multiple IDs can
// be passed comma separated; their subgraphs are fetched concurrently
// and merged before the pipeline runs.
func GetLineageHandler(c echo.Context) error {
	type lineageParams struct {
		ModelID string `query:"model_id" validate:"required"`
	}

	params := new(lineageParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.Lineage == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Lineage store not configured"})
	}

	modelIDs := make([]string, 0)
	for _, id := range strings.Split(params.ModelID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			modelIDs = append(modelIDs, id)
		}
	}
	if len(modelIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}

	ctx := c.Request().Context()

	var mu sync.Mutex
	results := make(map[string]lineage.GraphData, len(modelIDs))

	g, gctx := errgroup.WithContext(ctx)
	for _, modelID := range modelIDs {
		g.Go(func() error {
			data, err := app.Lineage.FetchLineage(gctx, modelID)
			if err != nil {
				return err
			}
			mu.Lock()
			results[modelID] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch lineage", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	merged := lineage.GraphData{QueriedModelID: modelIDs[0]}
	for _, modelID := range modelIDs {
		data := results[modelID]
		merged.Nodes.Nodes = append(merged.Nodes.Nodes, data.Nodes.Nodes...)
		merged.Relationships.Relationships = append(merged.Relationships.Relationships, data.Relationships.Relationships...)
	}

	graph := app.Runner.RunSync(ctx, merged, nil)
	return c.JSON(http.StatusOK, graph)
}
