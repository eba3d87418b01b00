package natsadapter

import "github.com/nats-io/nats.go"

// Relay fans plain NATS subjects out to in-process listeners, such as
// WebSocket connections.
type Relay struct {
	conn *nats.Conn
}

// NewRelay wraps an existing connection.
func NewRelay(conn *nats.Conn) *Relay {
	return &Relay{conn: conn}
}

// Subscribe calls fn with every payload on subject until the returned
// function is called.
func (r *Relay) Subscribe(subject string, fn func(data []byte)) (func(), error) {
	sub, err := r.conn.Subscribe(subject, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Connected reports whether the connection is up.
func (r *Relay) Connected() bool {
	return r.conn != nil && r.conn.IsConnected()
}
