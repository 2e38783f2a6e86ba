package routes

import (
	"iruka/iruka/controllers"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func CatalogRoutes(ctrl *controllers.CatalogController) chi.Router {
	r := chi.NewRouter()
	// GET /catalog?q=&category= : search
	r.Get("/", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		q := r.URL.Query()
		return ctrl.List(q.Get("q"), q.Get("category")), nil
	}))
	r.Get("/categories", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		return ctrl.Categories(), nil
	}))
	r.Get("/featured", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		return ctrl.Featured(), nil
	}))
	r.Get("/{id}", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			return nil, controllers.ErrItemNotFound
		}
		return ctrl.Get(id)
	}))
	return r
}
