package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synaptrix4/skillatics-io/internal/service"
)

type ResultHandler struct {
	Service *service.ResultService
}

func NewResultHandler(s *service.ResultService) *ResultHandler {
	return &ResultHandler{Service: s}
}

func (h *ResultHandler) ListResults(c *gin.Context) {
	results, err := h.Service.ListResults(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (h *ResultHandler) GetResult(c *gin.Context) {
	result, err := h.Service.GetResult(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
