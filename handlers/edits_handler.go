package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/camden-git/photoeditbackend/database"
	"github.com/camden-git/photoeditbackend/media"
	"github.com/camden-git/photoeditbackend/repository"
)

// EditsHandler serves the saved-edits catalog.
type EditsHandler struct {
	Edits repository.EditRepositoryInterface
	Store media.Store
}

func NewEditsHandler(edits repository.EditRepositoryInterface, store media.Store) *EditsHandler {
	return &EditsHandler{Edits: edits, Store: store}
}

// ListEdits returns all saved edit records in the requested sort order.
func (h *EditsHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	sortOrder := r.URL.Query().Get("sort")
	if sortOrder == "" {
		sortOrder = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(sortOrder) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid sort order: " + sortOrder})
		return
	}

	edits, err := h.Edits.ListAll(sortOrder)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list saved edits: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, edits)
}

// GetEdit returns a single saved edit record by ID.
func (h *EditsHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "editID"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid edit ID"})
		return
	}

	edit, err := h.Edits.GetByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Edit not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get edit: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, edit)
}

// DeleteEdit removes the record and its stored output file.
func (h *EditsHandler) DeleteEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "editID"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid edit ID"})
		return
	}

	edit, err := h.Edits.GetByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Edit not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get edit: " + err.Error()})
		return
	}

	if err := h.Edits.Delete(edit.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete edit record: " + err.Error()})
		return
	}

	// the record is authoritative; a stale file on disk is only logged
	if err := h.Store.Delete(edit.RelativePath); err != nil {
		log.Printf("edits: failed to delete stored file %s: %v", edit.RelativePath, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
