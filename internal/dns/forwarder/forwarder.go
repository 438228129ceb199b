// Package forwarder implements the single-threaded UDP forwarding
// resolver: it binds one client-facing socket, decodes each incoming
// query with the wire codec, forwards the question to a single
// upstream resolver, and relays the answer back. One query is in
// flight at a time; there is no per-connection state to share.
package forwarder

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/quietline/dnsresolver/internal/dns/common/log"
	"github.com/quietline/dnsresolver/internal/dns/wire"
)

// queryID is the fixed transaction ID the forwarder uses on every
// upstream query, mirroring the reference implementation rather than
// randomizing it: there is exactly one upstream query in flight at a
// time, so collisions cannot occur.
const queryID = 451

// DialFunc opens a connection to an upstream address. Production code
// uses net.Dialer.DialContext; tests substitute an in-memory or
// failing dialer.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Forwarder owns the bound client-facing UDP socket and forwards every
// query it receives to a single configured upstream resolver.
type Forwarder struct {
	upstream string
	timeout  time.Duration
	dial     DialFunc
	logger   log.Logger

	conn *net.UDPConn
}

// Option customizes a Forwarder at construction time.
type Option func(*Forwarder)

// WithDialFunc overrides how the forwarder dials the upstream resolver.
// Used by tests to inject a fake upstream without a real socket.
func WithDialFunc(d DialFunc) Option {
	return func(f *Forwarder) { f.dial = d }
}

// New builds a Forwarder that forwards to upstream, bounding each
// upstream round trip by timeout.
func New(upstream string, timeout time.Duration, logger log.Logger, opts ...Option) *Forwarder {
	f := &Forwarder{
		upstream: upstream,
		timeout:  timeout,
		dial:     (&net.Dialer{}).DialContext,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ListenAndServe binds 0.0.0.0:port and answers queries until ctx is
// canceled. It returns nil on a clean shutdown via ctx and a non-nil
// error only on a bind failure; read errors on the client socket are
// logged and the loop continues.
func (f *Forwarder) ListenAndServe(ctx context.Context, port int) error {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("forwarder: bind 0.0.0.0:%d: %w", port, err)
	}
	f.conn = conn
	defer conn.Close()

	f.logger.Info(map[string]any{"port": port}, "forwarder listening")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, wire.MaxMessageSize)
	for {
		n, client, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			f.logger.Error(map[string]any{"error": err.Error()}, "client socket read failed, continuing")
			continue
		}

		query := make([]byte, n)
		copy(query, buf[:n])
		f.answerQuery(ctx, conn, client, query)
	}
}

// answerQuery handles exactly one inbound datagram: decode it, forward
// its question upstream if one is present, and encode and send the
// reply. A malformed query or one with no question short-circuits
// straight to a FORMERR reply (RFC 1035 §4.1.1).
func (f *Forwarder) answerQuery(ctx context.Context, conn *net.UDPConn, client *net.UDPAddr, data []byte) {
	msg, err := wire.Decode(data)
	if err != nil {
		f.logger.Warn(map[string]any{
			"client": client.String(),
			"error":  err.Error(),
		}, "malformed query, replying FORMERR")
		f.reply(conn, client, wire.Message{Header: wire.Header{RCode: wire.FORMERR}})
		return
	}

	resp := wire.Message{
		Header: wire.Header{
			ID:                 msg.Header.ID,
			Response:           true,
			RecursionDesired:   true,
			RecursionAvailable: true,
		},
	}

	if len(msg.Questions) == 0 {
		f.logger.Warn(map[string]any{
			"client": client.String(),
		}, "query has no question, replying FORMERR")
		resp.Header.RCode = wire.FORMERR
		f.reply(conn, client, resp)
		return
	}

	q := msg.Questions[0]
	upstreamResp, err := f.Query(ctx, q.Name, q.Type)
	if err != nil {
		f.logger.Warn(map[string]any{
			"client": client.String(),
			"name":   q.Name,
			"error":  err.Error(),
		}, "upstream forward failed, replying SERVFAIL")
		resp.Header.RCode = wire.SERVFAIL
		f.reply(conn, client, resp)
		return
	}

	resp.Header.RCode = upstreamResp.Header.RCode
	resp.Questions = []wire.Question{q}
	resp.Answers = upstreamResp.Answers
	resp.Authorities = upstreamResp.Authorities
	resp.Additionals = upstreamResp.Additionals

	f.logger.Debug(map[string]any{
		"client":  client.String(),
		"name":    q.Name,
		"rcode":   resp.Header.RCode.String(),
		"answers": len(resp.Answers),
	}, "answered query")

	f.reply(conn, client, resp)
}

// reply encodes resp and writes it to client, logging (rather than
// returning) any failure: there is no recovery action left once the
// inbound query has already been consumed.
func (f *Forwarder) reply(conn *net.UDPConn, client *net.UDPAddr, resp wire.Message) {
	data, err := wire.Encode(resp)
	if err != nil {
		f.logger.Error(map[string]any{
			"client": client.String(),
			"error":  err.Error(),
		}, "failed to encode response")
		return
	}
	if _, err := conn.WriteToUDP(data, client); err != nil {
		f.logger.Error(map[string]any{
			"client": client.String(),
			"error":  err.Error(),
		}, "failed to send response")
	}
}

// Query forwards a single question to the configured upstream resolver
// over a fresh ephemeral UDP connection and returns its decoded reply.
// The read is bounded by f.timeout; an expired deadline is reported
// like any other upstream failure, which answerQuery turns into
// SERVFAIL. Exported so the CLI's --resolve operation can drive a
// single forward without standing up a listening socket.
func (f *Forwarder) Query(ctx context.Context, name string, qtype wire.QueryType) (wire.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	conn, err := f.dial(ctx, "udp", f.upstream)
	if err != nil {
		return wire.Message{}, fmt.Errorf("forwarder: dial upstream %s: %w", f.upstream, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	queryMsg := wire.Message{
		Header: wire.Header{
			ID:               queryID,
			RecursionDesired: true,
			QDCount:          1,
		},
		Questions: []wire.Question{{Name: name, Type: qtype}},
	}
	out, err := wire.Encode(queryMsg)
	if err != nil {
		return wire.Message{}, fmt.Errorf("forwarder: encode upstream query: %w", err)
	}
	if _, err := conn.Write(out); err != nil {
		return wire.Message{}, fmt.Errorf("forwarder: write to upstream: %w", err)
	}

	buf := make([]byte, wire.MaxMessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		return wire.Message{}, fmt.Errorf("forwarder: read from upstream: %w", err)
	}

	resp, err := wire.Decode(buf[:n])
	if err != nil {
		return wire.Message{}, fmt.Errorf("forwarder: decode upstream reply: %w", err)
	}
	return resp, nil
}
