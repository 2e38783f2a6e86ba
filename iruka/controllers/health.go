package controllers

import (
	"encoding/json"
	"iruka/iruka/sources/catalog"
	"net/http"
)

type HealthController struct {
	catalog *catalog.Catalog
}

func NewHealthController(c *catalog.Catalog) *HealthController {
	return &HealthController{catalog: c}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status, code := "ok", http.StatusOK
	items := 0
	if h.catalog != nil {
		items = h.catalog.Len()
	}
	if items == 0 {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "catalog_items": items})
}
