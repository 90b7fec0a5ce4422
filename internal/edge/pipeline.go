package edge

import (
	"context"
	"encoding/json"
	"fmt"

	"pet-lostfound/internal/domain/alerts"
	"pet-lostfound/internal/domain/anomaly"
	"pet-lostfound/internal/domain/telemetry"
	"pet-lostfound/internal/platform/logger"
)

// Subjects de los que consume el pipeline.
const (
	SubjectLitterEvents   = "events.litter.*"
	SubjectPlayroomAlerts = "playroom.alerts.*"
)

// Handler procesa un mensaje del bus. Debe ser seguro para ejecución
// concurrente: mensajes distintos pueden llegar en paralelo.
type Handler func(ctx context.Context, subject string, data []byte) error

// Route asocia un patrón de subject con su handler. La tabla se resuelve
// una sola vez al suscribirse, no por mensaje.
type Route struct {
	Subject string
	Handler Handler
}

// Pipeline orquesta validación -> persistencia -> regla de anomalía para
// las dos familias de mensajes. No tiene estado mutable compartido: todo
// lo compartido vive detrás de los repositorios.
type Pipeline struct {
	events     *telemetry.Service
	alerts     *alerts.Service
	thresholds anomaly.Thresholds
	log        logger.Logger
}

func NewPipeline(events *telemetry.Service, alertsSvc *alerts.Service, th anomaly.Thresholds, log logger.Logger) *Pipeline {
	return &Pipeline{
		events:     events,
		alerts:     alertsSvc,
		thresholds: th,
		log:        log,
	}
}

// Routes devuelve la tabla de rutas del pipeline. Las rutas son
// independientes: un error en una nunca afecta a la otra.
func (p *Pipeline) Routes() []Route {
	return []Route{
		{Subject: SubjectLitterEvents, Handler: p.HandleLitterEvent},
		{Subject: SubjectPlayroomAlerts, Handler: p.HandlePlayroomAlert},
	}
}

// HandleLitterEvent procesa un evento de arenero/comedero:
// valida, persiste el evento siempre, y si la regla dispara persiste la
// alerta derivada. La escritura del evento es la garantía primaria; la
// alerta es best-effort (si falla queda logueada y el evento ya está).
func (p *Pipeline) HandleLitterEvent(ctx context.Context, subject string, data []byte) error {
	ev, err := ParseLitterEvent(data)
	if err != nil {
		p.dropInvalid(subject, data, err)
		return nil
	}

	p.log.Info("litter event received", map[string]any{
		"subject": subject,
		"pet_id":  ev.PetID,
	})

	duration := ev.DurationS
	conf := ev.Conf
	if _, err := p.events.Record(ctx, subject, telemetry.RecordInput{
		PetID:     ev.PetID,
		Type:      ev.Type,
		TS:        ev.TS,
		DurationS: &duration,
		Conf:      &conf,
		Payload:   ev.Payload,
	}); err != nil {
		// Escritura primaria: se propaga para que el transporte reintente.
		return fmt.Errorf("store litter event: %w", err)
	}

	draft := anomaly.Evaluate(anomaly.Observation{DurationS: ev.DurationS, Conf: ev.Conf}, p.thresholds)
	if draft == nil {
		return nil
	}

	if _, err := p.alerts.CreateFromEvent(ctx, ev.PetID, draft.Kind, draft.Severity); err != nil {
		// La alerta derivada no anula el evento ya persistido.
		p.log.Error("derived alert not stored", map[string]any{
			"subject": subject,
			"pet_id":  ev.PetID,
			"error":   err.Error(),
		})
		return nil
	}

	p.log.Info("anomaly alert created", map[string]any{
		"subject":  subject,
		"pet_id":   ev.PetID,
		"kind":     draft.Kind,
		"severity": string(draft.Severity),
	})
	return nil
}

// HandlePlayroomAlert persiste una alerta de guardería tal cual llegó,
// sin pasar por el motor de reglas.
func (p *Pipeline) HandlePlayroomAlert(ctx context.Context, subject string, data []byte) error {
	al, err := ParsePlayroomAlert(data)
	if err != nil {
		p.dropInvalid(subject, data, err)
		return nil
	}

	p.log.Info("playroom alert received", map[string]any{
		"subject": subject,
		"pet_id":  al.PetID,
		"room_id": al.RoomID,
	})

	if _, err := p.alerts.Record(ctx, alerts.RecordInput{
		PetID:       al.PetID,
		RoomID:      al.RoomID,
		Kind:        al.Kind,
		Severity:    al.Severity,
		State:       al.State,
		EvidenceURL: al.EvidenceURL,
		TS:          al.TS,
	}); err != nil {
		return fmt.Errorf("store playroom alert: %w", err)
	}
	return nil
}

// dropInvalid loguea y descarta un payload inválido. Se intenta rescatar
// el pet_id aunque el resto del payload no haya validado.
func (p *Pipeline) dropInvalid(subject string, data []byte, err error) {
	fields := map[string]any{
		"subject": subject,
		"reason":  err.Error(),
	}
	if petID := peekPetID(data); petID != "" {
		fields["pet_id"] = petID
	}
	p.log.Error("message dropped", fields)
}

func peekPetID(data []byte) string {
	var probe struct {
		PetID string `json:"pet_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.PetID
}
