package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/fulfillment"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/response"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

type ListFulfillmentLogsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListFulfillmentLogsResponse struct {
	Items []*models.FulfillmentLog `json:"items"`
	Total int64                    `json:"total"`
}

// @Summary      List fulfillment logs
// @Description  Paginated fulfillment audit trail with filters, for support/finance reconciliation.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        payload body ListFulfillmentLogsRequest true "filters and pagination"
// @Success      200  {object}  RespListFulfillmentLogs
// @Router       /api/v1/admin/fulfillment/logs [post]
func ApiListFulfillmentLogs(store *ledger.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListFulfillmentLogsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		rows, total, err := store.ListFulfillmentLogs(c.Request.Context(), &ledger.ListFulfillmentLogsRequest{
			Filters:   req.Filters,
			From:      req.From,
			Size:      req.Size,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(ListFulfillmentLogsResponse{Items: rows, Total: total}))
	}
}

// @Summary      Retry fulfillment
// @Description  Re-drives a failed order through the fulfillment pipeline, bounded by the attempt cap.
// @Tags         Admin
// @Produce      json
// @Param        order_id path string true "order id"
// @Success      200  {object}  RespOK
// @Router       /api/v1/admin/fulfillment/retry/{order_id} [post]
func ApiRetryFulfillment(svc *fulfillment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if orderID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing order_id"))
			return
		}

		err := svc.Retry(c.Request.Context(), orderID)
		switch {
		case errors.Is(err, ledger.ErrOrderNotFound):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "order not found"))
		case errors.Is(err, fulfillment.ErrMaxRetriesExceeded):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "max retries exceeded"))
		case errors.Is(err, fulfillment.ErrRetryNotDue):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		case err != nil:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
		default:
			c.JSON(http.StatusOK, response.OKT[any](nil))
		}
	}
}

func RegisterAdminFulfillmentRoutes(r gin.IRouter, store *ledger.Store, svc *fulfillment.Service) {
	r.POST("/fulfillment/logs", ApiListFulfillmentLogs(store))
	r.POST("/fulfillment/retry/:order_id", ApiRetryFulfillment(svc))
}
