package handlers

import (
	"net/http"

	"plantco/services/review"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Service review.ReviewService
	Logger  *zap.Logger
}

func NewReviewHandler(svc review.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Service: svc, Logger: logger}
}

func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req review.CreateReviewRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	rv, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) ModerateReviewHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req review.ModerateRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	rv, err := h.Service.Moderate(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}
