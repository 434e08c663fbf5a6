// Package handlers implements the gin handlers backing the results-browser
// API: GET /summary, GET /agents, GET /agents/:pid.
package handlers

import (
	"errors"
	"net/http"
	"os"

	"evchargesim/internal/apiserver"
	"evchargesim/internal/apiserver/models"

	"github.com/gin-gonic/gin"
)

// ResultsHandler serves read-only views over one run's output directory.
type ResultsHandler struct {
	store *apiserver.Store
}

// NewResultsHandler builds a handler reading from outpath.
func NewResultsHandler(outpath string) *ResultsHandler {
	return &ResultsHandler{store: apiserver.NewStore(outpath)}
}

// Summary handles GET /summary.
func (h *ResultsHandler) Summary(c *gin.Context) {
	summary, err := h.store.Summary()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Agents handles GET /agents.
func (h *ResultsHandler) Agents(c *gin.Context) {
	agents, err := h.store.Agents()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AgentsResponse{Agents: agents})
}

// Agent handles GET /agents/:pid.
func (h *ResultsHandler) Agent(c *gin.Context) {
	pid := c.Param("pid")
	detail, ok, err := h.store.Agent(pid)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "no agent with pid " + pid},
		})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "OUTPUTS_NOT_FOUND", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()},
	})
}
