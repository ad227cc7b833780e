package llcp

import "github.com/pkg/errors"

// Remote request FSM. Mirrors the local side; the difference is how
// contexts arrive: rrNew creates one per unmatched incoming request
// opcode and immediately delivers that PDU to the armed machine.

func (c *Conn) rrExecute(evt uint8) error {
	switch c.remote.state {
	case reqStateDisconnected:
		c.rrStDisconnected(evt)
	case reqStateIdle:
		return c.rrStIdle(evt)
	case reqStateActive:
		return c.rrStActive(evt)
	}
	return nil
}

func (c *Conn) rrStDisconnected(evt uint8) {
	switch evt {
	case reqEvtConnect:
		c.remote.state = reqStateIdle
	}
}

func (c *Conn) rrStIdle(evt uint8) error {
	switch evt {
	case reqEvtRun:
		ctx := c.remote.pend.peek()
		if ctx == nil {
			return nil
		}
		c.remote.state = reqStateActive
		return c.rpExecute(ctx, rpEvtRun, nil)
	case reqEvtDisconnect:
		c.rrDrain()
		c.remote.state = reqStateDisconnected
	}
	return nil
}

func (c *Conn) rrStActive(evt uint8) error {
	switch evt {
	case reqEvtRun:
		// Wake a procedure parked in WAIT_TX or WAIT_NTF.
		if ctx := c.remote.pend.peek(); ctx != nil {
			return c.rpExecute(ctx, rpEvtRun, nil)
		}
	case reqEvtComplete:
		if ctx := c.remote.pend.get(); ctx != nil {
			c.e.ctxs.release(ctx)
		}
		c.remote.state = reqStateIdle
	case reqEvtDisconnect:
		c.rrDrain()
		c.remote.state = reqStateDisconnected
	}
	return nil
}

func (c *Conn) rrDrain() {
	for ctx := c.remote.pend.get(); ctx != nil; ctx = c.remote.pend.get() {
		c.e.ctxs.release(ctx)
	}
}

func (c *Conn) rrRun() error  { return c.rrExecute(reqEvtRun) }
func (c *Conn) rrComplete()   { _ = c.rrExecute(reqEvtComplete) }
func (c *Conn) rrConnect()    { _ = c.rrExecute(reqEvtConnect) }
func (c *Conn) rrDisconnect() { _ = c.rrExecute(reqEvtDisconnect) }

// rrNew starts a peer-initiated procedure from its first PDU: map the
// opcode, allocate and queue a context, arm it, then feed it the PDU.
// A collision with a not-yet-transmitted local procedure of the same
// kind is resolved by completing the local context from the remote
// exchange's result.
func (c *Conn) rrNew(p PDU) error {
	d, ok := dispatcher[p.Opcode()]
	if !ok {
		return errors.Wrapf(ErrProtocolViolation, "llcp: unknown opcode %#02x", p.Opcode())
	}

	var collided *procCtx
	if lctx := c.local.pend.peek(); lctx != nil && c.local.state == reqStateActive &&
		lctx.proc == d.proc && (lctx.state == lpStateIdle || lctx.state == lpStateWaitTx) {
		lctx.collision = true
		collided = lctx
	}

	ctx := c.e.createProc(d.proc)
	if ctx == nil {
		// No context slot. The peer's procedure timeout covers the
		// retransmission; nothing to unwind locally.
		c.e.log.Warnf("conn %04x: dropping %s, context pool empty", c.handle, d.desc)
		return nil
	}
	ctx.opcode = p.Opcode()

	c.remote.pend.append(ctx)

	if err := c.rrRun(); err != nil {
		return err
	}

	// On a serialized control channel the new context must now be the
	// armed head; a second overlapping remote procedure is the peer
	// breaking the one-at-a-time rule.
	if c.remote.pend.peek() != ctx || ctx.state != rpStateWaitRx {
		return errors.Wrapf(ErrProtocolViolation, "llcp: overlapping remote %s", d.desc)
	}

	if err := c.rpExecute(ctx, rpEvtRequest, p); err != nil {
		return err
	}

	if collided != nil && collided.collision {
		collided.collision = false
		return c.lpExecute(collided, lpEvtCollision, nil)
	}
	return nil
}
