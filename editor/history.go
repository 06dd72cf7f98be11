package editor

// History is a linear undo/redo sequence of full EditState snapshots plus a
// cursor. The sequence is never reordered, only truncated-and-appended or
// traversed. Invariant: 0 <= index < len(snapshots) whenever the history is
// non-empty.
type History struct {
	snapshots []EditState
	index     int
}

// NewHistory returns a history seeded with a single initial snapshot.
func NewHistory(initial EditState) *History {
	return &History{
		snapshots: []EditState{initial.Clone()},
		index:     0,
	}
}

// Commit pushes a deep copy of state, truncating any redo tail first.
func (h *History) Commit(state EditState) {
	h.snapshots = append(h.snapshots[:h.index+1], state.Clone())
	h.index = len(h.snapshots) - 1
}

// CanUndo reports whether the cursor can move back.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether the cursor can move forward.
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Undo moves the cursor back one snapshot and returns it. The second return
// is false if there is nothing to undo.
func (h *History) Undo() (EditState, bool) {
	if !h.CanUndo() {
		return EditState{}, false
	}
	h.index--
	return h.snapshots[h.index].Clone(), true
}

// Redo moves the cursor forward one snapshot and returns it.
func (h *History) Redo() (EditState, bool) {
	if !h.CanRedo() {
		return EditState{}, false
	}
	h.index++
	return h.snapshots[h.index].Clone(), true
}

// Current returns the snapshot at the cursor.
func (h *History) Current() EditState {
	return h.snapshots[h.index].Clone()
}

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// WorkingImageRefs returns the set of working-image handles referenced by any
// snapshot. Used by the session to release rasters no longer reachable after
// a truncating commit.
func (h *History) WorkingImageRefs() map[string]struct{} {
	refs := make(map[string]struct{})
	for _, s := range h.snapshots {
		if s.WorkingImageRef != "" {
			refs[s.WorkingImageRef] = struct{}{}
		}
	}
	return refs
}
