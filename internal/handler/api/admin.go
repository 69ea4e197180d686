package api

import (
	"net/http"

	resdto "rental-storefront/internal/handler/dto/response"
	"rental-storefront/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	reconciler *usecase.ConsistencyReconciler
}

func NewAdminHandler(reconciler *usecase.ConsistencyReconciler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

func (h *AdminHandler) RunReconciliation(c *gin.Context) {
	report, err := h.reconciler.Reconcile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReconcileReport(report))
}
