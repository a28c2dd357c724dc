package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/wishlist/internal/catalog"
	"github.com/meur/wishlist/internal/models"
	"github.com/meur/wishlist/internal/view"
)

// readyItems writes the loading or failure response and returns false
// unless the catalog is ready.
func (s *Server) readyItems(w http.ResponseWriter) ([]models.Item, bool) {
	snap := s.store.Snapshot()
	switch snap.Status {
	case catalog.StatusReady:
		return snap.Items, true
	case catalog.StatusFailed:
		respondJSON(w, http.StatusBadGateway, map[string]string{
			"status":  string(snap.Status),
			"error":   "Failed to load collection",
			"message": snap.Message,
		})
	default:
		w.Header().Set("Retry-After", "1")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": string(snap.Status),
		})
	}
	return nil, false
}

// handleGetItems returns the derived grid for the requested view
func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := models.ParseView(q.Get("filter"), q.Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, ok := s.readyItems(w)
	if !ok {
		return
	}

	derived := view.Derive(items, sel)
	// derived holds copies, so the store's review slices are not touched
	for i := range derived {
		derived[i].Reviews = derived[i].VisibleReviews()
	}
	s.metrics.derivations.WithLabelValues(string(sel.Filter), string(sel.Sort)).Inc()

	respondJSON(w, http.StatusOK, models.ItemList{
		Items:         derived,
		TotalCount:    len(items),
		FilteredCount: len(derived),
		Filter:        sel.Filter,
		Sort:          sel.Sort,
	})
}

// handleGetItem returns a single item by product code
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if _, ok := s.readyItems(w); !ok {
		return
	}
	item, found := s.store.Lookup(code)
	if !found {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	respondJSON(w, http.StatusOK, models.NewItemDetail(item, s.opts.BasePath))
}

// handleGetOptions returns the selectable filters and sorts with their defaults
func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filters": models.FilterOptions(),
		"sorts":   models.SortOptions(),
		"default": models.DefaultView(),
	})
}

// handleGetStatus reports the catalog load state
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      snap.Status,
		"message":     snap.Message,
		"total_count": len(snap.Items),
		"loaded_at":   snap.LoadedAt,
	})
}
