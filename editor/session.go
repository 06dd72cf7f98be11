package editor

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/camden-git/photoeditbackend/media"
	"github.com/camden-git/photoeditbackend/utils"
)

// SessionPhase is the coarse lifecycle state of an editing session.
type SessionPhase string

const (
	PhaseEditing  SessionPhase = "editing"
	PhaseTerminal SessionPhase = "terminal"
)

// SaveResult describes the persisted output of a successful save.
type SaveResult struct {
	URL          string `json:"url"`
	RelativePath string `json:"relative_path"`
	Filename     string `json:"filename"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
}

// Session owns one image-editing session: the original image, the chain of
// flattened working rasters, the live draft state and its history, and the
// transient crop rectangle reported by the crop controller. All methods are
// safe for concurrent use; renders additionally hold a processing flag so
// only one engine invocation is in flight per session.
type Session struct {
	ID               string
	OriginalFilename string
	Metadata         *utils.Metadata

	mu          sync.Mutex
	phase       SessionPhase
	processing  bool
	original    image.Image
	working     map[string]image.Image // handle -> flattened raster
	watermarks  map[string]image.Image // uploaded watermark art by handle
	draft       EditState
	history     *History
	cropPx      *CropRegion
	cropPct     *CropRegionPercent
	lastTouched time.Time
}

// NewSession initializes a session over img. Watermark geometry defaults are
// loaded from prefs (when available); the watermark type always starts at
// none regardless of what was persisted.
func NewSession(id string, img image.Image, originalFilename string, meta *utils.Metadata, prefs PreferencesStore) *Session {
	draft := DefaultEditState()
	if prefs != nil {
		applyWatermarkDefaults(&draft.Watermark, prefs)
	}
	draft.Watermark.Type = WatermarkNone
	draft.Watermark.ImageRef = ""

	return &Session{
		ID:               id,
		OriginalFilename: originalFilename,
		Metadata:         meta,
		phase:            PhaseEditing,
		original:         img,
		working:          make(map[string]image.Image),
		watermarks:       make(map[string]image.Image),
		draft:            draft,
		history:          NewHistory(draft),
		lastTouched:      time.Now(),
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Processing reports whether a render is currently in flight.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// LastTouched returns the time of the last state-changing interaction.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched
}

// Draft returns a copy of the live draft state.
func (s *Session) Draft() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// HistoryInfo returns (cursor, length, canUndo, canRedo).
func (s *Session) HistoryInfo() (int, int, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Index(), s.history.Len(), s.history.CanUndo(), s.history.CanRedo()
}

// UpdateDraft applies fn to the live draft without committing. Continuous
// interactions (slider drags) funnel through here; the matching commit fires
// on pointer release.
func (s *Session) UpdateDraft(fn func(*EditState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrSessionClosed
	}
	fn(&s.draft)
	s.lastTouched = time.Now()
	return nil
}

// Commit pushes the current draft onto history, truncating any redo tail.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrSessionClosed
	}
	s.history.Commit(s.draft)
	s.releaseUnreferencedLocked()
	s.lastTouched = time.Now()
	return nil
}

// Undo steps the cursor back and restores every field of that snapshot into
// the draft, including the working image reference.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return false
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.draft = snap
	s.lastTouched = time.Now()
	return true
}

// Redo steps the cursor forward symmetrically.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return false
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.draft = snap
	s.lastTouched = time.Now()
	return true
}

// ResetAll restores every parameter to its documented default (the working
// image reference is kept: reset clears adjustments, not applied crops) and
// commits the result.
func (s *Session) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrSessionClosed
	}
	ref := s.draft.WorkingImageRef
	s.draft = DefaultEditState()
	s.draft.WorkingImageRef = ref
	s.history.Commit(s.draft)
	s.releaseUnreferencedLocked()
	s.lastTouched = time.Now()
	return nil
}

// SetCropRegion mirrors the interactive crop controller's continuous
// onCropRegionChange callback into the session.
func (s *Session) SetCropRegion(px CropRegion, pct CropRegionPercent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrSessionClosed
	}
	p := px
	s.cropPx = &p
	q := pct
	s.cropPct = &q
	s.lastTouched = time.Now()
	return nil
}

// CropRegion returns the last reported crop rectangle, or nil.
func (s *Session) CropRegion() *CropRegion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cropPx == nil {
		return nil
	}
	c := *s.cropPx
	return &c
}

// AddWatermarkImage registers uploaded watermark art and returns its opaque
// handle. The draft is switched to an image watermark referencing it.
func (s *Session) AddWatermarkImage(handle string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrSessionClosed
	}
	s.watermarks[handle] = img
	s.draft.Watermark.Type = WatermarkImage
	s.draft.Watermark.ImageRef = handle
	s.history.Commit(s.draft)
	s.lastTouched = time.Now()
	return nil
}

// currentImageLocked resolves the draft's working image reference.
func (s *Session) currentImageLocked() image.Image {
	if s.draft.WorkingImageRef == "" {
		return s.original
	}
	if img, ok := s.working[s.draft.WorkingImageRef]; ok {
		return img
	}
	log.Printf("editor: session %s references unknown working image %q, falling back to original", s.ID, s.draft.WorkingImageRef)
	return s.original
}

// beginRender sets the processing flag, failing if a render is in flight or
// the session is closed. It returns the inputs a render needs so the engine
// can run without holding the session lock.
func (s *Session) beginRender() (image.Image, EditState, *CropRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return nil, EditState{}, nil, ErrSessionClosed
	}
	if s.processing {
		return nil, EditState{}, nil, ErrRenderInFlight
	}
	s.processing = true
	var crop *CropRegion
	if s.cropPx != nil {
		c := *s.cropPx
		crop = &c
	}
	return s.currentImageLocked(), s.draft.Clone(), crop, nil
}

func (s *Session) endRender() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

// ApplyCrop bakes the current crop rectangle (plus rotation and flips) into
// a new working image. The filter and overlay stages are deferred to save so
// they are never applied twice. On success the draft's geometry resets to
// neutral and the result is committed as a new snapshot.
func (s *Session) ApplyCrop(engine *Engine) error {
	src, draft, crop, err := s.beginRender()
	if err != nil {
		return err
	}
	defer s.endRender()

	if crop == nil {
		return ErrMissingCropRegion
	}

	composed, err := engine.Compose(src, RenderParams{
		Crop:        crop,
		RotationDeg: float64(draft.Rotation),
		FlipH:       draft.FlipHorizontal,
		FlipV:       draft.FlipVertical,
	})
	if err != nil {
		return err
	}

	handle := fmt.Sprintf("work-%d", time.Now().UnixNano())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.working[handle] = composed
	s.draft.WorkingImageRef = handle
	s.draft.ResetGeometry()
	s.cropPx = nil
	s.cropPct = nil
	s.history.Commit(s.draft)
	s.releaseUnreferencedLocked()
	s.lastTouched = time.Now()
	return nil
}

// Save renders the full current parameter set against the working image,
// persists the encoded blob through the storage collaborator and closes the
// session. On any failure the session stays in Editing with the draft
// untouched so the caller can retry.
func (s *Session) Save(engine *Engine, store media.Store, quality QualityPreset, prefs PreferencesStore) (*SaveResult, error) {
	src, draft, crop, err := s.beginRender()
	if err != nil {
		return nil, err
	}
	defer s.endRender()

	params := RenderParams{
		RotationDeg: float64(draft.Rotation),
		FlipH:       draft.FlipHorizontal,
		FlipV:       draft.FlipVertical,
		FilterExpr:  draft.FilterExpression(),
		Vignette:    &draft.Vignette,
		TextOverlay: &draft.TextOverlay,
	}
	// an uncommitted crop rectangle still applies on save
	if crop != nil {
		params.Crop = crop
	}
	if draft.Watermark.Type != WatermarkNone {
		wm := &WatermarkRender{WatermarkSpec: draft.Watermark}
		if draft.Watermark.Type == WatermarkImage {
			s.mu.Lock()
			wm.Image = s.watermarks[draft.Watermark.ImageRef]
			s.mu.Unlock()
		}
		params.Watermark = wm
	}

	result, err := engine.Render(src, params, quality)
	if err != nil {
		return nil, err
	}

	filename := utils.DeriveOutputFilename(s.OriginalFilename, OutputExtension)
	persisted, err := store.Persist(media.AssetTypeEdited, filename, result.MimeType, bytes.NewReader(result.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if prefs != nil {
		if err := saveWatermarkDefaults(draft.Watermark, prefs); err != nil {
			log.Printf("editor: failed to persist watermark defaults: %v", err)
		}
	}

	s.mu.Lock()
	s.phase = PhaseTerminal
	s.releaseAllLocked()
	s.mu.Unlock()

	return &SaveResult{
		URL:          persisted.URL,
		RelativePath: persisted.RelativePath,
		Filename:     filename,
		Width:        result.Width,
		Height:       result.Height,
		MimeType:     result.MimeType,
		SizeBytes:    int64(len(result.Data)),
	}, nil
}

// Cancel discards the whole session state.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseTerminal {
		return
	}
	s.phase = PhaseTerminal
	s.releaseAllLocked()
}

// releaseUnreferencedLocked drops working rasters no snapshot references
// anymore. This is the blob-handle lifetime obligation: truncating commits
// after undoing past an applied crop would otherwise pin every superseded
// raster for the life of the session.
func (s *Session) releaseUnreferencedLocked() {
	refs := s.history.WorkingImageRefs()
	if s.draft.WorkingImageRef != "" {
		refs[s.draft.WorkingImageRef] = struct{}{}
	}
	for handle := range s.working {
		if _, ok := refs[handle]; !ok {
			delete(s.working, handle)
		}
	}
}

func (s *Session) releaseAllLocked() {
	s.working = make(map[string]image.Image)
	s.watermarks = make(map[string]image.Image)
	s.original = nil
}
