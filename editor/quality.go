package editor

// QualityPreset is a named compression-quality level. The user-facing
// surface only ever deals in preset names, never raw encoder values.
type QualityPreset string

const (
	QualityLow      QualityPreset = "low"
	QualityMedium   QualityPreset = "medium"
	QualityHigh     QualityPreset = "high"
	QualityOriginal QualityPreset = "original"
)

// JPEGQuality maps the preset to the encoder quality value (1-100).
func (q QualityPreset) JPEGQuality() int {
	switch q {
	case QualityLow:
		return 60
	case QualityMedium:
		return 75
	case QualityHigh:
		return 85
	case QualityOriginal:
		return 92
	default:
		return 85
	}
}

// ParseQualityPreset returns the preset named by s, defaulting to high for
// unknown or empty input.
func ParseQualityPreset(s string) QualityPreset {
	switch QualityPreset(s) {
	case QualityLow, QualityMedium, QualityHigh, QualityOriginal:
		return QualityPreset(s)
	default:
		return QualityHigh
	}
}
