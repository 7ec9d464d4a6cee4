// Package oracle holds the parametric trigger logic: pure, stateless
// comparison of index readings against the configured thresholds. No
// hysteresis and no debouncing; each reading is judged on its own.
package oracle

import (
	"math/rand/v2"

	"github.com/arif-itm/FarmProof/internal/types"
	"github.com/arif-itm/FarmProof/internal/weather"
)

// Reading is one set of index values from the three simulated sensor
// sources, plus ambient weather fields carried through for display.
type Reading struct {
	Rainfall float64 `json:"rainfall"` // 72h cumulative precipitation, mm
	NDVI     float64 `json:"ndvi"`     // Vegetation stress index, %
	River    float64 `json:"river"`    // River gauge level, m
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Wind     float64 `json:"wind"`
}

// IndexResult is the verdict for a single index.
type IndexResult struct {
	Value    float64 `json:"value"`
	Exceeded bool    `json:"exceeded"`
	Pct      float64 `json:"pct"` // Value as a percentage of the threshold, capped at 130 for gauges
}

// Verdict is the structured result of evaluating one reading.
type Verdict struct {
	Rainfall    IndexResult `json:"rainfall"`
	NDVI        IndexResult `json:"ndvi"`
	River       IndexResult `json:"river"`
	AllExceeded bool        `json:"allExceeded"`
}

// Flood-scenario readings: calibrated to clear every default threshold.
const (
	floodRainfall = 237.5
	floodNDVI     = 62.4
	floodRiver    = 9.8
)

// Simulate produces a sensor reading. The rainfall index comes from the
// live (or fallback) weather reading; NDVI and river level are drawn
// from calm baseline ranges. With flood set, all three indices jump to
// the flood scenario values.
func Simulate(flood bool, w weather.Reading) Reading {
	if flood {
		return Reading{
			Rainfall: floodRainfall,
			NDVI:     floodNDVI,
			River:    floodRiver,
			Temp:     w.Temp,
			Humidity: w.Humidity,
			Wind:     w.Wind,
		}
	}
	return Reading{
		Rainfall: w.Rainfall72h,
		NDVI:     8 + rand.Float64()*8,
		River:    5.5 + rand.Float64()*1.5,
		Temp:     w.Temp,
		Humidity: w.Humidity,
		Wind:     w.Wind,
	}
}

// Evaluate compares a reading against the thresholds. An index is
// exceeded when its value is strictly greater than its threshold;
// AllExceeded is the logical AND across all three.
func Evaluate(r Reading, t types.Thresholds) Verdict {
	v := Verdict{
		Rainfall: judge(r.Rainfall, t.Rainfall),
		NDVI:     judge(r.NDVI, t.NDVI),
		River:    judge(r.River, t.River),
	}
	v.AllExceeded = v.Rainfall.Exceeded && v.NDVI.Exceeded && v.River.Exceeded
	return v
}

func judge(value, threshold float64) IndexResult {
	pct := 0.0
	if threshold > 0 {
		pct = value / threshold * 100
		if pct > 130 {
			pct = 130
		}
	}
	return IndexResult{Value: value, Exceeded: value > threshold, Pct: pct}
}
