package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterAdminFulfillmentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/admin")
	RegisterAdminFulfillmentRoutes(g, nil, nil)

	contains := func(target string) bool {
		for _, rt := range r.Routes() {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains(http.MethodPost+" /api/v1/admin/fulfillment/logs"))
	require.True(t, contains(http.MethodPost+" /api/v1/admin/fulfillment/retry/:order_id"))
}
