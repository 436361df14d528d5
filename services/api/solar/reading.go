// Package solar reads solar-panel telemetry from its CSV source.
package solar

// PanelAreaM2 is the fixed collector area used to turn irradiance into
// incident power.
const PanelAreaM2 = 10.0

// Reading is one telemetry row.
type Reading struct {
	Hora         int
	RadiacaoWm2  float64
	PotenciaKW   float64
	TemperaturaC float64
}

// IncidentPowerKW is the power theoretically available over the panel area.
func (r Reading) IncidentPowerKW() float64 {
	return r.RadiacaoWm2 * PanelAreaM2 / 1000
}

// YieldPercent is the measured output as a percentage of incident power.
// Zero irradiance gives +Inf with positive output and NaN with none.
func (r Reading) YieldPercent() float64 {
	return r.PotenciaKW / r.IncidentPowerKW() * 100
}
