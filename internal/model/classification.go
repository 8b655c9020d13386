package model

// SensorWindow is an ordered sequence of 6-axis samples:
// accel x/y/z followed by gyro x/y/z.
type SensorWindow [][]float64

// SensorAxes is the fixed sample width of a window row.
const SensorAxes = 6

// WindowSummary holds the derived statistics sent to the inference
// gateway in place of the raw window.
type WindowSummary struct {
	Samples          int     `json:"samples"`
	AvgAccelX        float64 `json:"avg_accel_x"`
	AvgAccelY        float64 `json:"avg_accel_y"`
	AvgAccelZ        float64 `json:"avg_accel_z"`
	AvgGyroX         float64 `json:"avg_gyro_x"`
	AvgGyroY         float64 `json:"avg_gyro_y"`
	AvgGyroZ         float64 `json:"avg_gyro_z"`
	MaxAccelMagnitude float64 `json:"max_accel_magnitude"`
	MaxGyroMagnitude  float64 `json:"max_gyro_magnitude"`
}

// ClassificationSource tags whether a result came from the model's own
// JSON reply or from the deterministic threshold fallback.
type ClassificationSource string

const (
	SourceModel     ClassificationSource = "model"
	SourceHeuristic ClassificationSource = "heuristic"
)

// ClassificationResult is the normalized output of the classifier
// proxy. Confidence is always clamped into [0,1]; Status is one of the
// recorded event types ("Fall Detected" or "Normal Activity").
type ClassificationResult struct {
	Status     string               `json:"status"`
	Confidence float64              `json:"confidence"`
	Source     ClassificationSource `json:"source"`
	Reasoning  string               `json:"reasoning,omitempty"`
}

// IsFall reports whether the window was classified as a fall.
func (r *ClassificationResult) IsFall() bool {
	return r.Status == EventTypeFallDetected
}
