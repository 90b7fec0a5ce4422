// Package anomaly implementa la regla de detección sobre eventos de
// arenero/comedero. Es una función pura: sin I/O ni estado entre eventos.
package anomaly

import "pet-lostfound/internal/domain/alerts"

// Thresholds son los umbrales de la regla, configurables por deployment.
type Thresholds struct {
	DurationS float64 // breach si duration_s > DurationS
	Conf      float64 // breach si conf < Conf
}

// DefaultThresholds son los valores de fábrica.
func DefaultThresholds() Thresholds {
	return Thresholds{DurationS: 180, Conf: 0.4}
}

// Observation es lo mínimo que la regla necesita de un evento.
type Observation struct {
	DurationS float64
	Conf      float64
}

// Draft es la alerta propuesta. El pipeline decide persistirla o no.
type Draft struct {
	Kind     string
	Severity alerts.Severity
}

// Evaluate aplica la regla y devuelve a lo sumo un Draft por evento.
// Los dos breaches son independientes y cualquiera dispara alerta.
// El breach de confianza manda: severity high aunque también haya breach
// de duración; duración sola => moderate. Sin breach => nil.
func Evaluate(obs Observation, th Thresholds) *Draft {
	durationBreach := obs.DurationS > th.DurationS
	confidenceBreach := obs.Conf < th.Conf

	if !durationBreach && !confidenceBreach {
		return nil
	}

	severity := alerts.SeverityModerate
	if confidenceBreach {
		severity = alerts.SeverityHigh
	}

	return &Draft{
		Kind:     alerts.KindLitterAnomaly,
		Severity: severity,
	}
}
