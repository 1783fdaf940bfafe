package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultConnectTimeout bounds the socket.io handshake.
const DefaultConnectTimeout = 15 * time.Second

var ErrConnectTimeout = errors.New("timed out waiting for socket.io connection")

// DialOptions configures a socket.io connection.
type DialOptions struct {
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIO is an Emitter backed by a socket.io client over WebSocket.
type SocketIO struct {
	io *socket.Socket
}

// ParseEndpoint splits a viewer URL into the manager base URL and socket path.
func ParseEndpoint(raw string) (base, path string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", "", fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("missing host in %s", raw)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), u.Path, nil
}

// Dial connects to a socket.io server and waits for the handshake.
func Dial(ctx context.Context, rawURL string, o DialOptions) (*SocketIO, error) {
	base, path, err := ParseEndpoint(rawURL)
	if err != nil {
		return nil, err
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	if path != "" {
		opts.SetPath(path)
	}
	if o.InsecureSkipVerify {
		logrus.Warnf("Skipping TLS certificate verification for %s", rawURL)
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	manager := socket.NewManager(base, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logrus.Debugf("Connected to %s (sid %v)", rawURL, io.Id())
		signal(connected, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		signal(connected, err)
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logrus.Infof("Publishing to %s", rawURL)
		return &SocketIO{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("%w after %s", ErrConnectTimeout, timeout)
	}
}

// signal delivers the first handshake outcome and drops later ones.
func signal(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func (s *SocketIO) Emit(event string, payload any) {
	s.io.Emit(event, payload)
}

func (s *SocketIO) Close() {
	logrus.Debugf("Closing socket.io client %v", s.io.Id())
	s.io.Disconnect()
}
