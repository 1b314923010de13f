package registry

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SessionFactory hands out a registry session per logical operation. Every
// bridge operation opens its own session and shares no state with other
// operations; the factory itself must be cheap to call.
type SessionFactory interface {
	Session() Client
}

// Dialer is the standard SessionFactory: it binds a registry endpoint
// (host, port, namespace) and produces REST-backed sessions. The
// underlying HTTP transport is shared across sessions, so construction
// per call carries no connection cost.
type Dialer struct {
	Host      string
	Port      int
	Namespace string

	// Timeout bounds each registry request. Zero means no client-side
	// bound beyond the context's.
	Timeout time.Duration

	// Log receives transport-level events. Nil disables logging.
	Log *zap.Logger

	// Transport overrides the HTTP transport, mainly for tests. Nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// URL returns the registry base URL for this dialer.
func (d *Dialer) URL() string {
	return fmt.Sprintf("http://%s:%d", d.Host, d.Port)
}

// Session returns a fresh REST-backed registry client bound to the
// dialer's endpoint and namespace.
func (d *Dialer) Session() Client {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &restClient{
		baseURL:   d.URL(),
		namespace: d.Namespace,
		http: &http.Client{
			Timeout:   d.Timeout,
			Transport: d.Transport,
		},
		log: log,
	}
}
