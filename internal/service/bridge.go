package service

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skout-dev/skout/internal/variant"
)

// ErrBridgeClosed reports a call on a closed bridge connection.
var ErrBridgeClosed = errors.New("service: bridge closed")

// BridgeConn speaks the service protocol to a helper process over its
// stdio. Each call writes one frame and reads one frame; a mutex keeps the
// pairs from interleaving. Frames carry JSON envelopes:
//
//	{"op":"request","body":<tree>}   -> {"ok":true,"body":<tree>}
//	{"op":"uid","uid":N}             -> {"ok":true,"name":"..."|null}
//
// failures from the helper come back as {"ok":false,"error":"..."}. Trees
// cross in the transport encoding so binary fields and UIDs survive JSON.
type BridgeConn struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	log    zerolog.Logger
	closed bool
}

type bridgeEnvelope struct {
	Op   string          `json:"op"`
	Body json.RawMessage `json:"body,omitempty"`
	UID  uint64          `json:"uid,omitempty"`
}

type bridgeReply struct {
	OK    bool            `json:"ok"`
	Body  json.RawMessage `json:"body,omitempty"`
	Name  *string         `json:"name"`
	Error string          `json:"error,omitempty"`
}

// StartBridge launches the helper process and returns a connection bound to
// its stdio. The helper's stderr is drained into the logger so a crashing
// helper leaves evidence.
func StartBridge(command string, args []string, log zerolog.Logger) (*BridgeConn, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge %q: %w", command, err)
	}

	blog := log.With().Str("component", "bridge").Logger()
	go drainStderr(stderr, blog)

	blog.Debug().Str("command", command).Int("pid", cmd.Process.Pid).Msg("bridge started")

	return &BridgeConn{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		log:    blog,
	}, nil
}

// Request implements Conn.
func (b *BridgeConn) Request(req *variant.Dictionary) (variant.Value, error) {
	body, err := variant.MarshalCompact(variant.EncodeTransport(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reply, err := b.roundTrip(bridgeEnvelope{Op: "request", Body: body})
	if err != nil {
		return nil, err
	}
	if !reply.OK {
		return nil, fmt.Errorf("service: request failed: %s", reply.Error)
	}

	tree, err := variant.FromJSON(reply.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return variant.DecodeTransport(tree)
}

// ResolveUID implements Conn. Transport failures surface as a miss; the
// protocol gives this call no error channel, so the failure is logged here.
func (b *BridgeConn) ResolveUID(id uint64) (string, bool) {
	reply, err := b.roundTrip(bridgeEnvelope{Op: "uid", UID: id})
	if err != nil {
		b.log.Warn().Err(err).Uint64("uid", id).Msg("uid lookup failed")
		return "", false
	}
	if !reply.OK || reply.Name == nil {
		return "", false
	}
	return *reply.Name, true
}

// Close shuts the helper down by closing its stdin and waiting for exit.
func (b *BridgeConn) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.stdin.Close(); err != nil {
		b.log.Warn().Err(err).Msg("failed to close bridge stdin")
	}
	if err := b.cmd.Wait(); err != nil {
		return fmt.Errorf("bridge exited abnormally: %w", err)
	}
	return nil
}

func (b *BridgeConn) roundTrip(env bridgeEnvelope) (*bridgeReply, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBridgeClosed
	}

	if err := writeFrame(b.stdin, payload); err != nil {
		return nil, fmt.Errorf("failed to write frame: %w", err)
	}
	raw, err := readFrame(b.stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	var reply bridgeReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return &reply, nil
}

func drainStderr(r io.Reader, log zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debug().Str("stream", "stderr").Msg(scanner.Text())
	}
}
