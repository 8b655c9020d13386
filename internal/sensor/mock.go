package sensor

import (
	"math/rand"

	"github.com/vertiguard/vertiguard-api/internal/model"
)

// Mock sensor windows for simulated monitoring runs: 200 samples of
// accel x/y/z and gyro x/y/z, shaped after recordings of a real fall
// (steady walking, a sharp acceleration spike, then near-stillness on
// the ground).

const mockSamples = 200

// MockFallWindow returns a window containing a fall signature. The
// peak acceleration magnitude always exceeds the 2.5 threshold, so the
// fallback heuristic classifies it as a fall even when the gateway
// reply is unusable.
func MockFallWindow() model.SensorWindow {
	window := make(model.SensorWindow, 0, mockSamples)

	// Normal walking, samples 0-149.
	for i := 0; i < 150; i++ {
		window = append(window, []float64{
			0.10 + rand.Float64()*0.08,
			0.95 + rand.Float64()*0.10,
			0.02 + rand.Float64()*0.08,
			-0.02 + rand.Float64()*0.08,
			-0.03 + rand.Float64()*0.06,
			0.01 + rand.Float64()*0.08,
		})
	}

	// The fall itself: a ramp to a hard spike, samples 150-174.
	spike := [][]float64{
		{0.15, 1.10, 0.08, 0.05, 0.02, 0.10},
		{0.35, 1.85, 0.25, 0.35, 0.15, 0.45},
		{0.85, 3.20, 0.75, 1.25, 0.85, 1.35},
		{1.45, 4.80, 1.55, 2.65, 1.95, 2.85},
		{2.25, 6.50, 2.75, 4.50, 3.85, 4.95},
		{2.95, 7.80, 3.65, 6.25, 5.50, 6.75},
		{3.15, 8.20, 3.95, 7.15, 6.35, 7.45},
		{2.85, 7.50, 3.45, 6.45, 5.85, 6.95},
		{2.25, 6.20, 2.65, 4.95, 4.55, 5.65},
		{1.55, 4.50, 1.75, 3.25, 2.95, 3.85},
		{0.95, 2.80, 0.95, 1.65, 1.45, 1.95},
		{0.45, 1.50, 0.45, 0.75, 0.55, 0.85},
		{0.25, 0.95, 0.25, 0.35, 0.25, 0.45},
		{0.15, 0.75, 0.15, 0.15, 0.10, 0.25},
	}
	window = append(window, spike...)
	for i := 0; i < 11; i++ {
		window = append(window, []float64{
			0.85 + rand.Float64()*2.50,
			3.50 + rand.Float64()*4.50,
			1.25 + rand.Float64()*2.50,
			2.85 + rand.Float64()*4.50,
			2.45 + rand.Float64()*3.50,
			3.15 + rand.Float64()*4.50,
		})
	}

	// Impact and recovery, samples 175-199.
	for len(window) < mockSamples {
		window = append(window, []float64{
			0.08 + rand.Float64()*0.05,
			0.35 + rand.Float64()*0.15,
			0.03 + rand.Float64()*0.05,
			0.01 + rand.Float64()*0.03,
			rand.Float64() * 0.02,
			0.02 + rand.Float64()*0.04,
		})
	}

	return window
}

// MockNormalWindow returns a window of ordinary activity, well under
// the fall threshold throughout.
func MockNormalWindow() model.SensorWindow {
	window := make(model.SensorWindow, 0, mockSamples)
	for i := 0; i < mockSamples; i++ {
		window = append(window, []float64{
			0.08 + rand.Float64()*0.12,
			0.92 + rand.Float64()*0.16,
			0.02 + rand.Float64()*0.10,
			-0.03 + rand.Float64()*0.10,
			-0.04 + rand.Float64()*0.08,
			rand.Float64() * 0.10,
		})
	}
	return window
}
