package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// exporters maps the keys of the export document to the model
// producing the data.
var exporters = map[string]func(uuid.UUID) (json.RawMessage, error){
	"budgets":       models.Budget{}.Export,
	"envelopes":     models.Envelope{}.Export,
	"transactions":  models.Transaction{}.Export,
	"templates":     models.Template{}.Export,
	"templateLines": models.TemplateLine{}.Export,
	"savingsGoals":  models.SavingsGoal{}.Export,
	"matchRules":    models.MatchRule{}.Export,
}

type ExportResponse struct {
	Version      string                     `json:"version" example:"1"`                             // Version of the export format
	CreationTime time.Time                  `json:"creationTime" example:"2025-06-17T20:14:01.048145Z"` // Time the export was created
	Clacks       string                     `json:"clacks" example:"GNU Terry Pratchett"`
	Data         map[string]json.RawMessage `json:"data"` // All resources of the user, keyed by resource name
}

// RegisterExportRoutes registers the routes for exports with the
// RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsExport)
	r.GET("", GetExport)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Export
// @Success		204
// @Router			/v1/export [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export
// @Description	Exports all resources of the user as a single JSON document, including soft-deleted records
// @Tags			Export
// @Produce		json
// @Success		200	{object}	ExportResponse
// @Failure		500	{object}	httpError
// @Router			/v1/export [get]
func GetExport(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	data := make(map[string]json.RawMessage, len(exporters))
	for name, export := range exporters {
		raw, err := export(userID)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		data[name] = raw
	}

	c.JSON(http.StatusOK, ExportResponse{
		Version:      "1",
		CreationTime: time.Now().In(time.UTC),
		Clacks:       "GNU Terry Pratchett",
		Data:         data,
	})
}
