package media

// AssetType partitions stored assets into subdirectories.
type AssetType string

const (
	// AssetTypeEdited holds finished render outputs.
	AssetTypeEdited AssetType = "edited"
	// AssetTypeWatermark holds uploaded custom watermark art.
	AssetTypeWatermark AssetType = "watermark"
)

// PersistResult is what the storage collaborator reports back after a
// successful persist: where the blob landed and the URL it is served from.
type PersistResult struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"url"`
}
