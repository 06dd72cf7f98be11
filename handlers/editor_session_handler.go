package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camden-git/photoeditbackend/editor"
	"github.com/camden-git/photoeditbackend/media"
	"github.com/camden-git/photoeditbackend/models"
	"github.com/camden-git/photoeditbackend/repository"
	"github.com/camden-git/photoeditbackend/utils"
	"github.com/camden-git/photoeditbackend/workers"
)

// uploads above this are rejected before decoding
const maxUploadBytes = 64 << 20

// EditorSessionHandler exposes the editing-session lifecycle over HTTP.
type EditorSessionHandler struct {
	Manager    *editor.SessionManager
	Engine     *editor.Engine
	Store      media.Store
	Prefs      repository.PreferenceRepositoryInterface
	Edits      repository.EditRepositoryInterface
	RenderPool *workers.RenderPool
	// DefaultQuality is applied when a save request names no preset
	DefaultQuality editor.QualityPreset
}

func NewEditorSessionHandler(manager *editor.SessionManager, engine *editor.Engine, store media.Store, prefs repository.PreferenceRepositoryInterface, edits repository.EditRepositoryInterface, pool *workers.RenderPool, defaultQuality editor.QualityPreset) *EditorSessionHandler {
	return &EditorSessionHandler{
		Manager:        manager,
		Engine:         engine,
		Store:          store,
		Prefs:          prefs,
		Edits:          edits,
		RenderPool:     pool,
		DefaultQuality: defaultQuality,
	}
}

type sessionResponse struct {
	ID               string           `json:"id"`
	Phase            string           `json:"phase"`
	OriginalFilename string           `json:"original_filename"`
	State            editor.EditState `json:"state"`
	HistoryIndex     int              `json:"history_index"`
	HistoryLength    int              `json:"history_length"`
	CanUndo          bool             `json:"can_undo"`
	CanRedo          bool             `json:"can_redo"`
	Metadata         *utils.Metadata  `json:"metadata,omitempty"`
}

func (h *EditorSessionHandler) sessionJSON(s *editor.Session) sessionResponse {
	idx, length, canUndo, canRedo := s.HistoryInfo()
	return sessionResponse{
		ID:               s.ID,
		Phase:            string(s.Phase()),
		OriginalFilename: s.OriginalFilename,
		State:            s.Draft(),
		HistoryIndex:     idx,
		HistoryLength:    length,
		CanUndo:          canUndo,
		CanRedo:          canRedo,
		Metadata:         s.Metadata,
	}
}

// session resolves the {sessionID} URL parameter, writing the error response
// itself when the session is unknown.
func (h *EditorSessionHandler) session(w http.ResponseWriter, r *http.Request) *editor.Session {
	id := chi.URLParam(r, "sessionID")
	s := h.Manager.Get(id)
	if s == nil {
		WriteAPIError(w, http.StatusNotFound, "session_not_found", fmt.Sprintf("no editing session with ID %s", id))
		return nil
	}
	return s
}

// CreateSession decodes a multipart image upload and opens a new editing
// session over it.
func (h *EditorSessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "could not parse multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "missing 'image' form file")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_type", fmt.Sprintf("%s is not a supported raster image", header.Filename))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "read_failed", "failed to read upload: "+err.Error())
		return
	}
	if len(raw) > maxUploadBytes {
		WriteAPIError(w, http.StatusRequestEntityTooLarge, "upload_too_large", "image exceeds upload size limit")
		return
	}

	img, err := h.Engine.Decode(bytes.NewReader(raw))
	if err != nil {
		WriteAPIError(w, http.StatusUnprocessableEntity, "decode_failed", err.Error())
		return
	}

	meta, err := utils.ReadImageMetadata(bytes.NewReader(raw))
	if err != nil {
		log.Printf("editor: metadata extraction failed for %s: %v", header.Filename, err)
		meta = nil
	}

	id := uuid.NewString()
	session := editor.NewSession(id, img, header.Filename, meta, h.Prefs)
	h.Manager.Put(session)

	log.Printf("editor: opened session %s for %s (%dx%d)", id, header.Filename, img.Bounds().Dx(), img.Bounds().Dy())
	writeJSON(w, http.StatusCreated, h.sessionJSON(session))
}

// GetSession returns the draft state and history cursor info.
func (h *EditorSessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// stateUpdateRequest carries a partial draft update. Pointer fields
// distinguish "not sent" from zero values.
type stateUpdateRequest struct {
	Crop     *editor.CropOffset `json:"crop,omitempty"`
	Zoom     *float64           `json:"zoom,omitempty"`
	Rotation *int               `json:"rotation,omitempty"`
	Aspect   *float64           `json:"aspect,omitempty"`
	// ClearAspect resets the aspect constraint back to freeform
	ClearAspect bool `json:"clear_aspect,omitempty"`

	FlipHorizontal *bool `json:"flip_horizontal,omitempty"`
	FlipVertical   *bool `json:"flip_vertical,omitempty"`

	ActiveFilter *string  `json:"active_filter,omitempty"`
	Brightness   *float64 `json:"brightness,omitempty"`
	Contrast     *float64 `json:"contrast,omitempty"`
	Saturation   *float64 `json:"saturation,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Blur         *float64 `json:"blur,omitempty"`

	Vignette    *editor.VignetteSpec    `json:"vignette,omitempty"`
	Watermark   *editor.WatermarkSpec   `json:"watermark,omitempty"`
	TextOverlay *editor.TextOverlaySpec `json:"text_overlay,omitempty"`
}

func (req *stateUpdateRequest) validate() error {
	if req.ActiveFilter != nil && !editor.IsValidFilterPreset(*req.ActiveFilter) {
		return fmt.Errorf("unknown filter preset %q", *req.ActiveFilter)
	}
	if req.Watermark != nil {
		if req.Watermark.Position != "" && !editor.IsValidAnchor(req.Watermark.Position) {
			return fmt.Errorf("unknown watermark position %q", req.Watermark.Position)
		}
	}
	if req.TextOverlay != nil {
		if req.TextOverlay.Position != "" && !editor.IsValidAnchor(req.TextOverlay.Position) {
			return fmt.Errorf("unknown text overlay position %q", req.TextOverlay.Position)
		}
	}
	return nil
}

func (req *stateUpdateRequest) apply(state *editor.EditState) {
	if req.Crop != nil {
		state.Crop = *req.Crop
	}
	if req.Zoom != nil {
		state.Zoom = *req.Zoom
	}
	if req.Rotation != nil {
		state.Rotation = *req.Rotation
	}
	if req.ClearAspect {
		state.Aspect = nil
	} else if req.Aspect != nil {
		a := *req.Aspect
		state.Aspect = &a
	}
	if req.FlipHorizontal != nil {
		state.FlipHorizontal = *req.FlipHorizontal
	}
	if req.FlipVertical != nil {
		state.FlipVertical = *req.FlipVertical
	}
	if req.ActiveFilter != nil {
		state.ActiveFilter = *req.ActiveFilter
	}
	if req.Brightness != nil {
		state.Brightness = *req.Brightness
	}
	if req.Contrast != nil {
		state.Contrast = *req.Contrast
	}
	if req.Saturation != nil {
		state.Saturation = *req.Saturation
	}
	if req.Temperature != nil {
		state.Temperature = *req.Temperature
	}
	if req.Blur != nil {
		state.Blur = *req.Blur
	}
	if req.Vignette != nil {
		state.Vignette = *req.Vignette
	}
	if req.Watermark != nil {
		// the raster registry handle is owned by the upload endpoint
		ref := state.Watermark.ImageRef
		state.Watermark = *req.Watermark
		state.Watermark.ImageRef = ref
	}
	if req.TextOverlay != nil {
		state.TextOverlay = *req.TextOverlay
	}
}

// UpdateState applies a partial draft update. With ?commit=1 the updated
// draft is pushed onto history in the same request (pointer-release writes).
func (h *EditorSessionHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req stateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload: "+err.Error())
		return
	}

	if err := req.validate(); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_state", err.Error())
		return
	}

	if err := s.UpdateDraft(req.apply); err != nil {
		h.writeSessionError(w, err)
		return
	}

	if r.URL.Query().Get("commit") == "1" {
		if err := s.Commit(); err != nil {
			h.writeSessionError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// CommitState pushes the current draft onto history.
func (h *EditorSessionHandler) CommitState(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Commit(); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// Undo steps the history cursor back one snapshot.
func (h *EditorSessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Undo()
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// Redo steps the history cursor forward one snapshot.
func (h *EditorSessionHandler) Redo(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Redo()
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// Reset restores every adjustable parameter to its default and commits.
func (h *EditorSessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.ResetAll(); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

type cropRegionRequest struct {
	Pixel   editor.CropRegion        `json:"pixel"`
	Percent editor.CropRegionPercent `json:"percent"`
}

// SetCropRegion mirrors the crop controller's continuous region updates.
func (h *EditorSessionHandler) SetCropRegion(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req cropRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload: "+err.Error())
		return
	}
	if req.Pixel.Width <= 0 || req.Pixel.Height <= 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_crop", "crop region must have positive width and height")
		return
	}

	if err := s.SetCropRegion(req.Pixel, req.Percent); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UploadWatermarkImage decodes custom watermark art and registers it with
// the session under a fresh handle.
func (h *EditorSessionHandler) UploadWatermarkImage(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "could not parse multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "missing 'image' form file")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_type", fmt.Sprintf("%s is not a supported raster image", header.Filename))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "read_failed", "failed to read upload: "+err.Error())
		return
	}
	if len(raw) > maxUploadBytes {
		WriteAPIError(w, http.StatusRequestEntityTooLarge, "upload_too_large", "image exceeds upload size limit")
		return
	}

	img, err := h.Engine.Decode(bytes.NewReader(raw))
	if err != nil {
		WriteAPIError(w, http.StatusUnprocessableEntity, "decode_failed", err.Error())
		return
	}

	handle, err := utils.UniqueAssetFilename(strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	// keep a copy of the art on disk so the frontend can re-display it;
	// rendering reads the in-memory raster registered below
	if _, err := h.Store.Persist(media.AssetTypeWatermark, handle, media.MimeTypeForFilename(header.Filename), bytes.NewReader(raw)); err != nil {
		log.Printf("editor: failed to persist watermark art %s: %v", handle, err)
	}

	if err := s.AddWatermarkImage(handle, img); err != nil {
		h.writeSessionError(w, err)
		return
	}

	log.Printf("editor: session %s registered watermark image %s (%s)", s.ID, handle, header.Filename)
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

// ApplyCrop bakes the current crop rectangle into a new working image via
// the render pool.
func (h *EditorSessionHandler) ApplyCrop(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	err := h.RenderPool.Do(s.ID, workers.TaskApplyCrop, func() error {
		return s.ApplyCrop(h.Engine)
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionJSON(s))
}

type saveRequest struct {
	Quality string `json:"quality"`
}

// Save renders the full parameter set, persists the output, records it, and
// closes the session.
func (h *EditorSessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req saveRequest
	if r.Body != nil {
		// an empty body means default quality
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload: "+err.Error())
			return
		}
	}
	quality := h.DefaultQuality
	if req.Quality != "" {
		quality = editor.ParseQualityPreset(req.Quality)
	}

	var result *editor.SaveResult
	err := h.RenderPool.Do(s.ID, workers.TaskSave, func() error {
		var saveErr error
		result, saveErr = s.Save(h.Engine, h.Store, quality, h.Prefs)
		return saveErr
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	record := &models.EditedImage{
		OriginalFilename: s.OriginalFilename,
		Filename:         result.Filename,
		RelativePath:     result.RelativePath,
		URL:              result.URL,
		Width:            result.Width,
		Height:           result.Height,
		MimeType:         result.MimeType,
		SizeBytes:        result.SizeBytes,
		Quality:          string(quality),
	}
	if meta := s.Metadata; meta != nil {
		record.TakenAt = meta.TakenAt
		record.CameraMake = meta.CameraMake
		record.CameraModel = meta.CameraModel
		record.FocalLength = meta.FocalLength
		record.Aperture = meta.Aperture
		record.ShutterSpeed = meta.ShutterSpeed
		record.ISO = meta.ISO
	}
	if err := h.Edits.Create(record); err != nil {
		// the asset is already persisted; the record is bookkeeping
		log.Printf("editor: failed to record saved edit %s: %v", result.Filename, err)
	}

	h.Manager.Remove(s.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"record": record,
	})
}

// CancelSession discards the session and all of its state.
func (h *EditorSessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Cancel()
	h.Manager.Remove(s.ID)
	log.Printf("editor: cancelled session %s", s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// writeSessionError maps editor sentinel errors onto HTTP statuses.
func (h *EditorSessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrMissingCropRegion):
		WriteAPIError(w, http.StatusBadRequest, "missing_crop_region", err.Error())
	case errors.Is(err, editor.ErrDecode):
		WriteAPIError(w, http.StatusUnprocessableEntity, "decode_failed", err.Error())
	case errors.Is(err, editor.ErrSessionClosed):
		WriteAPIError(w, http.StatusConflict, "session_closed", err.Error())
	case errors.Is(err, editor.ErrRenderInFlight), errors.Is(err, workers.ErrSessionBusy):
		WriteAPIError(w, http.StatusConflict, "render_in_flight", err.Error())
	case errors.Is(err, workers.ErrQueueFull):
		WriteAPIError(w, http.StatusServiceUnavailable, "queue_full", err.Error())
	case errors.Is(err, editor.ErrEncode), errors.Is(err, editor.ErrUpload):
		WriteAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
