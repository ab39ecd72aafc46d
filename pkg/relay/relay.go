// Package relay bridges one client websocket to the controller's telemetry
// socket. Messages are forwarded verbatim in both directions; the session
// ends as soon as either side disconnects, and the relay then closes the
// surviving connection itself.
package relay

import (
	"github.com/gorilla/websocket"

	"shaker-host/pkg/config"
	"shaker-host/pkg/log"
	"shaker-host/pkg/metrics"
)

// Relay opens telemetry sessions against the configured controller.
type Relay struct {
	controllerURL string
	dialer        *websocket.Dialer
	logger        *log.Logger
	stats         *metrics.ShakerMetrics
}

// New creates a relay for the configured controller socket.
func New(cfg config.Controller) *Relay {
	return &Relay{
		controllerURL: cfg.WebsocketURL,
		dialer:        websocket.DefaultDialer,
		logger:        log.GetLogger("relay"),
		stats:         metrics.Global(),
	}
}

// pump forwards messages from src to dst until src disconnects or dst
// rejects a write. The first error ends the pump.
func (r *Relay) pump(src, dst *websocket.Conn, direction string, done chan<- error) {
	for {
		msgType, msg, err := src.ReadMessage()
		if err != nil {
			done <- err
			return
		}
		if err := dst.WriteMessage(msgType, msg); err != nil {
			done <- err
			return
		}
		r.stats.RelayMessages.Inc(metrics.Labels{"direction": direction})
	}
}

// Bridge runs one relay session over an already-upgraded client connection.
// It dials the controller socket, pumps both directions concurrently and
// tears the whole session down when the first direction ends. Disconnects
// from either side are a normal session end, not an error; only a failure
// to reach the controller at all is reported.
func (r *Relay) Bridge(clientConn *websocket.Conn) error {
	defer clientConn.Close()

	controllerConn, _, err := r.dialer.Dial(r.controllerURL, nil)
	if err != nil {
		r.logger.WithError(err).Warn("cannot reach controller telemetry socket")
		return err
	}
	defer controllerConn.Close()

	r.stats.RelaySessions.Inc(nil)
	r.stats.RelayActive.Inc(nil)
	defer r.stats.RelayActive.Dec(nil)
	r.logger.Info("telemetry session open")

	done := make(chan error, 2)
	go r.pump(clientConn, controllerConn, "client_to_controller", done)
	go r.pump(controllerConn, clientConn, "controller_to_client", done)

	// First direction to terminate ends the session. Closing both
	// connections (via the defers) unblocks the surviving pump.
	<-done

	r.logger.Info("telemetry session closed")
	return nil
}
