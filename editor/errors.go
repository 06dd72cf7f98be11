package editor

import "errors"

// Error kinds surfaced by the engine and session controller. All of these are
// terminal for the triggering action only: history and the working image are
// left exactly as they were, and the caller may retry.
var (
	// ErrDecode indicates the source image could not be decoded.
	ErrDecode = errors.New("editor: source image could not be decoded")

	// ErrMissingCropRegion indicates a commit requiring a crop rectangle was
	// invoked before one was reported by the crop controller.
	ErrMissingCropRegion = errors.New("editor: no crop region set")

	// ErrEncode indicates the final blob could not be produced.
	ErrEncode = errors.New("editor: output image could not be encoded")

	// ErrUpload indicates the storage collaborator rejected the persist call.
	ErrUpload = errors.New("editor: storage upload failed")

	// ErrSessionClosed indicates an action was routed to a session that has
	// already been saved or cancelled.
	ErrSessionClosed = errors.New("editor: session is closed")

	// ErrRenderInFlight indicates a render was requested while another render
	// for the same session had not finished yet.
	ErrRenderInFlight = errors.New("editor: a render is already in progress")
)
