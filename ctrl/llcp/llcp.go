// Package llcp implements the link layer control procedure engine of a
// BLE controller's upper link layer: per-connection queues of local and
// remote procedure contexts, the per-procedure state machines driving
// them, and the fixed resource pools they draw from.
//
// The engine is event driven and never blocks. It is fed by the
// embedding's periodic service tick (Conn.Run), received control PDUs
// (Conn.Rx) and host initiations (Conn.VersionExchange, ...); everything
// it produces goes out through the TxQueue and NtfSink collaborators.
// All state belonging to one engine must be accessed from a single
// execution context.
package llcp

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/oAltxF4o/zephyr"
)

var (
	// ErrCommandDisallowed is returned by procedure initiators when no
	// procedure context is free.
	ErrCommandDisallowed = errors.New("llcp: command disallowed")

	// ErrProtocolViolation is returned by Rx and Run when the peer
	// breaks the control procedure rules. It is fatal to the
	// connection; the embedding is expected to terminate the link.
	ErrProtocolViolation = errors.New("llcp: protocol violation")
)

// Engine owns the procedure context, TX control buffer and notification
// buffer pools, and the collaborators shared by its connections. Pools
// are sized at construction and never grow.
type Engine struct {
	settings Settings
	ntfSink  NtfSink

	ctxs *ctxPool
	txs  *txPool
	ntfs *ntfPool

	log zephyr.Logger
}

type engineConfig struct {
	ctxCount int
	txCount  int
	ntfCount int
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithProcCtxCount sets the procedure context pool size.
func WithProcCtxCount(n int) Option { return func(c *engineConfig) { c.ctxCount = n } }

// WithTxBufCount sets the TX control buffer pool size.
func WithTxBufCount(n int) Option { return func(c *engineConfig) { c.txCount = n } }

// WithNtfBufCount sets the notification buffer pool size.
func WithNtfBufCount(n int) Option { return func(c *engineConfig) { c.ntfCount = n } }

// NewEngine builds an engine around the given settings oracle and
// notification sink. Pool sizes default to 1 each.
func NewEngine(s Settings, ntf NtfSink, opts ...Option) *Engine {
	cfg := engineConfig{
		ctxCount: defaultProcCtxCount,
		txCount:  defaultTxBufCount,
		ntfCount: defaultNtfBufCount,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.ctxCount < 1 || cfg.txCount < 1 || cfg.ntfCount < 1 {
		panic(fmt.Sprintf("llcp: pool counts must be positive (%d/%d/%d)",
			cfg.ctxCount, cfg.txCount, cfg.ntfCount))
	}

	return &Engine{
		settings: s,
		ntfSink:  ntf,
		ctxs:     newCtxPool(cfg.ctxCount),
		txs:      newTxPool(cfg.txCount),
		ntfs:     newNtfPool(cfg.ntfCount),
		log:      zephyr.GetLogger().ChildLogger(map[string]interface{}{"component": "llcp"}),
	}
}

// ReleaseTx returns a transmitted control buffer to the pool. Called by
// the embedding once the lower link layer is done with the node.
func (e *Engine) ReleaseTx(tx *NodeTx) { e.txs.release(tx) }

// ReleaseNtf returns a consumed notification node to the pool. Called by
// the embedding once the host has taken the event.
func (e *Engine) ReleaseNtf(ntf *NodeRx) { e.ntfs.release(ntf) }

// FreeCtx reports the number of free procedure contexts.
func (e *Engine) FreeCtx() int { return e.ctxs.freeCount() }

// FreeTx reports the number of free TX control buffers.
func (e *Engine) FreeTx() int { return e.txs.freeCount() }

// FreeNtf reports the number of free notification buffers.
func (e *Engine) FreeNtf() int { return e.ntfs.freeCount() }

func (e *Engine) createProc(proc procedure) *procCtx {
	ctx := e.ctxs.acquire()
	if ctx == nil {
		return nil
	}

	ctx.proc = proc
	ctx.state = lpStateIdle
	ctx.opcode = 0
	ctx.status = StatusSuccess
	ctx.collision = false
	ctx.pause = false

	return ctx
}
