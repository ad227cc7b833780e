package llcp

import "github.com/pkg/errors"

// Conn is the per-connection control block: the local and remote request
// machines, their pending procedure queues, and the per-procedure caches.
// All methods must be called from the connection's single service
// context; the engine takes no locks.
type Conn struct {
	e      *Engine
	handle uint16
	txq    TxQueue

	local  reqFsm
	remote reqFsm

	// Version exchange cache. sent gates the single permitted
	// LL_VERSION_IND transmission on this connection.
	vex struct {
		valid  bool
		sent   bool
		cached VersionInd
	}

	// Feature exchange cache: the peer's feature set.
	fex struct {
		valid    bool
		features uint64
	}
}

type reqFsm struct {
	state uint8
	pend  procList
}

// NewConn builds a control block bound to an engine and the
// connection's transmit queue. The block starts disconnected.
func NewConn(e *Engine, handle uint16, txq TxQueue) *Conn {
	c := &Conn{e: e, handle: handle, txq: txq}
	c.Init()
	return c
}

// Init resets the control block: both request machines disconnected,
// queues empty, caches cleared. Call Disconnect first if procedures may
// still be queued, otherwise their contexts never return to the pool.
func (c *Conn) Init() {
	c.local = reqFsm{state: reqStateDisconnected}
	c.remote = reqFsm{state: reqStateDisconnected}
	c.vex.valid = false
	c.vex.sent = false
	c.vex.cached = VersionInd{}
	c.fex.valid = false
	c.fex.features = 0
}

// Handle returns the connection handle notifications are stamped with.
func (c *Conn) Handle() uint16 { return c.handle }

// Connect moves both request machines out of DISCONNECTED. Idempotent.
func (c *Conn) Connect() {
	c.rrConnect()
	c.lrConnect()
}

// Disconnect drains both pending queues, returning every context to the
// pool, and parks the request machines in DISCONNECTED. Idempotent.
func (c *Conn) Disconnect() {
	c.rrDisconnect()
	c.lrDisconnect()
}

// Run drives one cooperative tick of the engine: the remote side first,
// then the local side, matching the original controller's service order.
// Procedures parked on buffer starvation re-attempt here. A returned
// error is fatal to the connection.
func (c *Conn) Run() error {
	if err := c.rrRun(); err != nil {
		return err
	}
	return c.lrRun()
}

// Rx feeds one received control PDU into the dispatcher. Routing order:
// the active local context by expected opcode (including the peer error
// opcodes aimed at it), then the active remote context, then a new
// peer-initiated procedure. A returned error is fatal to the connection.
func (c *Conn) Rx(p PDU) error {
	if !p.valid() {
		return errors.Wrap(ErrProtocolViolation, "llcp: malformed control pdu")
	}
	op := p.Opcode()

	if ctx := c.local.pend.peek(); ctx != nil && c.local.state == reqStateActive && ctx.state == lpStateWaitRx {
		switch {
		case ctx.opcode == op:
			// Response on local procedure.
			return c.lpExecute(ctx, lpEvtResponse, p)

		case op == OpUnknownRsp:
			var u UnknownRsp
			if err := u.Unmarshal(p.CtrData()); err != nil {
				return err
			}
			if u.UnknownType == reqOpcode(ctx.proc) {
				return c.lpExecute(ctx, lpEvtUnknown, p)
			}

		case op == OpRejectInd:
			return c.lpExecute(ctx, lpEvtReject, p)

		case op == OpRejectExtInd:
			var r RejectExtInd
			if err := r.Unmarshal(p.CtrData()); err != nil {
				return err
			}
			if r.RejectOpcode != reqOpcode(ctx.proc) {
				return errors.Wrapf(ErrProtocolViolation,
					"llcp: reject for opcode %#02x with no matching procedure", r.RejectOpcode)
			}
			return c.lpExecute(ctx, lpEvtReject, p)
		}
	}

	if ctx := c.remote.pend.peek(); ctx != nil && c.remote.state == reqStateActive &&
		ctx.state == rpStateWaitRx && ctx.opcode == op {
		// Continuation on remote procedure.
		return c.rpExecute(ctx, rpEvtRequest, p)
	}

	// New remote request.
	return c.rrNew(p)
}

// VersionExchange queues a local version exchange. Once the exchange has
// run on this connection, later calls complete from the cache without
// touching the wire.
func (c *Conn) VersionExchange() error {
	return c.initiate(procVersionExchange)
}

// FeatureExchange queues a local feature exchange.
func (c *Conn) FeatureExchange() error {
	return c.initiate(procFeatureExchange)
}

// Ping queues a local LE ping.
func (c *Conn) Ping() error {
	return c.initiate(procLEPing)
}

func (c *Conn) initiate(proc procedure) error {
	ctx := c.e.createProc(proc)
	if ctx == nil {
		return errors.Wrap(ErrCommandDisallowed, "llcp: no free procedure context")
	}
	c.local.pend.append(ctx)
	return nil
}
