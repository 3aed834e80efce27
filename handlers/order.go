package handlers

import (
	"net/http"

	"plantco/models"
	"plantco/services/order"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderHandler exposes the order lifecycle.
type OrderHandler struct {
	Service order.OrderService
	Logger  *zap.Logger
}

func NewOrderHandler(svc order.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{Service: svc, Logger: logger}
}

// CreateOrderHandler reserves stock and places an order for the caller.
func (h *OrderHandler) CreateOrderHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req order.CreateOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	o, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	o, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ListOrdersHandler lists the caller's orders. Vendors get the orders that
// contain their products; admins may pass ?vendorId=.
func (h *OrderHandler) ListOrdersHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	var (
		res *order.OrderPage
		err error
	)
	vendorID := c.Query("vendorId")
	if actor.Role == models.RoleVendor || (actor.IsAdmin() && vendorID != "") {
		res, err = h.Service.ListForVendor(c.Request.Context(), actor, vendorID, page, limit)
	} else {
		res, err = h.Service.ListForCustomer(c.Request.Context(), actor, page, limit)
	}
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) UpdateOrderStatusHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req order.TransitionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	o, err := h.Service.Transition(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) CancelOrderHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var body noteBody
	if !optionalBody(c, logger, &body) {
		return
	}
	o, err := h.Service.Cancel(c.Request.Context(), actor, c.Param("id"), body.text())
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) RefundOrderHandler(c *gin.Context) {
	logger := getLogger(c, h.Logger)
	actor, ok := principal(c)
	if !ok {
		return
	}
	var body noteBody
	if !optionalBody(c, logger, &body) {
		return
	}
	o, err := h.Service.Refund(c.Request.Context(), actor, c.Param("id"), body.text())
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
