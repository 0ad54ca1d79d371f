package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"datadetox/internal/server/middleware"
	"datadetox/pkg/lineage"
)

// PostGraphHandler runs the graph pipeline on a lineage payload supplied
// directly by the caller, bypassing the agent backend.
func PostGraphHandler(c echo.Context) error {
	type graphParams struct {
		Neo4jData   lineage.GraphData    `json:"neo4j_data"`
		DatasetRisk *lineage.RiskContext `json:"dataset_risk"`
	}

	params := new(graphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	graph := app.Runner.RunSync(ctx, params.Neo4jData, params.DatasetRisk)
	return c.JSON(http.StatusOK, graph)
}
