package telemetry

import "time"

// Event es un hecho inmutable reportado por un dispositivo edge
// (arenero, comedero). Se persiste una sola vez, tal cual llegó.
type Event struct {
	ID     string
	Source string // subject del bus de origen, ej "events.litter.device1"
	PetID  string
	Type   string // categoría libre del dispositivo ("use", "meal", ...)

	TS time.Time

	// DurationS y Conf son obligatorios para la familia litter/feeder;
	// quedan nullable en el modelo porque la tabla admite otras fuentes.
	DurationS *float64
	Conf      *float64

	Payload map[string]any // extras específicos del dispositivo

	CreatedAt time.Time
}
