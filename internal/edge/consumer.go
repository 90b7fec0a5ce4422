package edge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"pet-lostfound/internal/platform/logger"
)

const (
	connectTimeout = 5 * time.Second
	reconnectWait  = 2 * time.Second
	maxReconnects  = 60
	drainTimeout   = 30 * time.Second
)

// Consumer mantiene la conexión NATS y las suscripciones del pipeline.
// El bus puede entregar mensajes de las dos suscripciones en paralelo;
// los handlers no comparten estado mutable así que no hay sync extra acá.
type Consumer struct {
	nc     *nats.Conn
	log    logger.Logger
	closed chan struct{}

	mu   sync.Mutex
	subs []*nats.Subscription
}

// Connect abre la conexión al bus. Si el bus no está alcanzable el error
// se devuelve al caller: el proceso debe salir non-zero, no avanzar mudo.
func Connect(url string, log logger.Logger) (*Consumer, error) {
	closed := make(chan struct{})

	nc, err := nats.Connect(url,
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.DrainTimeout(drainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("bus disconnected", map[string]any{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("bus reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect bus %s: %w", url, err)
	}

	return &Consumer{nc: nc, log: log, closed: closed}, nil
}

// Subscribe registra la tabla de rutas en el bus. Se resuelve una sola vez:
// de acá en adelante el bus despacha directo al handler de cada subject.
func (c *Consumer) Subscribe(ctx context.Context, routes []Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, route := range routes {
		handler := route.Handler
		sub, err := c.nc.Subscribe(route.Subject, func(msg *nats.Msg) {
			if err := handler(ctx, msg.Subject, msg.Data); err != nil {
				c.log.Error("handler failed", map[string]any{
					"subject": msg.Subject,
					"error":   err.Error(),
				})
			}
		})
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", route.Subject, err)
		}
		c.subs = append(c.subs, sub)
		c.log.Info("subscribed", map[string]any{"subject": route.Subject})
	}

	return c.nc.Flush()
}

// Closed se dispara cuando la conexión al bus quedó definitivamente
// cerrada (reconexiones agotadas). Un consumidor sin bus no recibe ni
// persiste nada: el caller debe salir non-zero, no quedarse mudo.
func (c *Consumer) Closed() <-chan struct{} {
	return c.closed
}

// Drain corta la entrada de mensajes nuevos, deja terminar los handlers
// en vuelo y recién ahí suelta la conexión.
func (c *Consumer) Drain() error {
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
		return err
	}

	select {
	case <-c.closed:
		return nil
	case <-time.After(drainTimeout + time.Second):
		c.nc.Close()
		return fmt.Errorf("drain timed out after %s", drainTimeout)
	}
}
