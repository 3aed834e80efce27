package handlers

import (
	"net/http"

	"plantco/services/booking"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req booking.CreateBookingRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	b, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	b, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler serves ?view=upcoming, ?view=history, or a paged list
// filtered by ?status=.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch c.Query("view") {
	case "upcoming":
		list, err := h.Service.Upcoming(ctx, actor)
		if err != nil {
			utils.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": list})
	case "history":
		list, err := h.Service.History(ctx, actor)
		if err != nil {
			utils.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": list})
	default:
		page, limit := pageQuery(c)
		res, err := h.Service.ListForUser(ctx, actor, c.Query("status"), page, limit)
		if err != nil {
			utils.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req booking.TransitionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	b, err := h.Service.Transition(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var body noteBody
	if !optionalBody(c, logger, &body) {
		return
	}
	b, err := h.Service.Cancel(c.Request.Context(), actor, c.Param("id"), body.text())
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) RejectBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var body noteBody
	if !optionalBody(c, logger, &body) {
		return
	}
	b, err := h.Service.Reject(c.Request.Context(), actor, c.Param("id"), body.text())
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ReviewBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req booking.ReviewRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	b, err := h.Service.AddCustomerReview(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

func (h *BookingHandler) ProviderStatsHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	js, err := h.Service.ProviderStats(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, js)
}
