package llcp

import "github.com/pkg/errors"

// Local procedure common FSM. One instance of this machine drives the
// head of the local pending queue through request transmission, response
// reception and host notification. Parking states (WAIT_TX, WAIT_NTF)
// resolve buffer starvation: the machine re-attempts on every RUN tick.

func (c *Conn) lpExecute(ctx *procCtx, evt uint8, p PDU) error {
	// A reject or unknown response terminates the procedure whatever
	// state it is in.
	if evt == lpEvtReject || evt == lpEvtUnknown {
		return c.lpRejected(ctx, evt, p)
	}

	switch ctx.state {
	case lpStateIdle:
		return c.lpStIdle(ctx, evt)
	case lpStateWaitTx:
		return c.lpStWaitTx(ctx, evt)
	case lpStateWaitRx:
		return c.lpStWaitRx(ctx, evt, p)
	case lpStateWaitNtf:
		return c.lpStWaitNtf(ctx, evt)
	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: local fsm in unknown state %d", ctx.state)
	}
}

func (c *Conn) lpStIdle(ctx *procCtx, evt uint8) error {
	switch evt {
	case lpEvtRun:
		if ctx.pause {
			ctx.state = lpStateWaitTx
			return nil
		}
		return c.lpSendReq(ctx)
	}
	return nil
}

func (c *Conn) lpStWaitTx(ctx *procCtx, evt uint8) error {
	switch evt {
	case lpEvtRun:
		if ctx.pause {
			return nil
		}
		return c.lpSendReq(ctx)
	case lpEvtCollision:
		return c.lpCollided(ctx)
	}
	return nil
}

func (c *Conn) lpStWaitRx(ctx *procCtx, evt uint8, p PDU) error {
	switch evt {
	case lpEvtResponse:
		if err := c.lpRxDecode(p); err != nil {
			return err
		}
		return c.lpComplete(ctx)
	case lpEvtCollision:
		return c.lpCollided(ctx)
	}
	return nil
}

func (c *Conn) lpStWaitNtf(ctx *procCtx, evt uint8) error {
	switch evt {
	case lpEvtRun:
		return c.lpComplete(ctx)
	}
	return nil
}

// lpSendReq attempts to put the procedure's request on the wire. It
// parks the context in WAIT_TX when no TX buffer is free or the
// procedure is paused, and short-circuits to completion when the
// procedure already ran on this connection.
func (c *Conn) lpSendReq(ctx *procCtx) error {
	switch ctx.proc {
	case procVersionExchange:
		// At most one LL_VERSION_IND is ever queued for transmission
		// during a connection; repeats answer from the cache.
		if c.vex.sent {
			return c.lpComplete(ctx)
		}
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = lpStateWaitTx
			return nil
		}
		c.lpTx(ctx, &VersionInd{
			VersionNumber:    VersionNumber,
			CompanyID:        c.e.settings.CompanyID(),
			SubVersionNumber: c.e.settings.SubversionNumber(),
		})
		c.vex.sent = true
		ctx.state = lpStateWaitRx

	case procFeatureExchange:
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = lpStateWaitTx
			return nil
		}
		c.lpTx(ctx, &FeatureReq{FeatureSet: c.e.settings.Features()})
		ctx.state = lpStateWaitRx

	case procLEPing:
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = lpStateWaitTx
			return nil
		}
		c.lpTx(ctx, &PingReq{})
		ctx.state = lpStateWaitRx

	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: unknown local procedure %d", ctx.proc)
	}
	return nil
}

func (c *Conn) lpTx(ctx *procCtx, m Message) {
	tx := c.e.txs.acquire()
	tx.PDU = encodePDU(tx.buf[:], m)
	ctx.opcode = rspOpcode(ctx.proc)
	c.txq.EnqueueCtrl(tx)
	c.e.log.Debugf("conn %04x: tx opcode %#02x", c.handle, m.Opcode())
}

func (c *Conn) lpRxDecode(p PDU) error {
	switch p.Opcode() {
	case OpVersionInd:
		if err := c.vex.cached.Unmarshal(p.CtrData()); err != nil {
			return err
		}
		c.vex.valid = true
	case OpFeatureRsp:
		var f FeatureRsp
		if err := f.Unmarshal(p.CtrData()); err != nil {
			return err
		}
		c.fex.features = f.FeatureSet
		c.fex.valid = true
	case OpPingRsp:
		// No CtrData.
	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: unexpected response opcode %#02x", p.Opcode())
	}
	return nil
}

// lpComplete finishes the active local procedure: emit the host
// notification where the procedure has one, then hand the slot back to
// the local request machine. Parks in WAIT_NTF on notification buffer
// starvation; ctx.status survives the park.
func (c *Conn) lpComplete(ctx *procCtx) error {
	if procNotifies(ctx.proc) {
		if !c.e.ntfs.peek() {
			ctx.state = lpStateWaitNtf
			return nil
		}
		c.lpNtf(ctx)
	}
	ctx.state = lpStateIdle
	c.lrComplete()
	return nil
}

func (c *Conn) lpNtf(ctx *procCtx) {
	ntf := c.e.ntfs.acquire()
	ntf.Handle = c.handle
	ntf.Status = ctx.status

	if ctx.status == StatusSuccess {
		switch ctx.proc {
		case procVersionExchange:
			v := c.vex.cached
			ntf.PDU = encodePDU(ntf.buf[:], &v)
		case procFeatureExchange:
			ntf.PDU = encodePDU(ntf.buf[:], &FeatureRsp{FeatureSet: c.fex.features})
		}
	}

	c.e.ntfSink.Enqueue(ntf)
	c.e.log.Debugf("conn %04x: ntf status %#02x", c.handle, ntf.Status)
}

// lpRejected converts a peer LL_UNKNOWN_RSP / LL_REJECT_IND /
// LL_REJECT_EXT_IND into an error completion. The connection survives;
// the host learns the outcome from the notification status.
func (c *Conn) lpRejected(ctx *procCtx, evt uint8, p PDU) error {
	switch evt {
	case lpEvtUnknown:
		ctx.status = StatusUnsupportedRemote
	case lpEvtReject:
		switch p.Opcode() {
		case OpRejectInd:
			var r RejectInd
			if err := r.Unmarshal(p.CtrData()); err != nil {
				return err
			}
			ctx.status = r.ErrorCode
		case OpRejectExtInd:
			var r RejectExtInd
			if err := r.Unmarshal(p.CtrData()); err != nil {
				return err
			}
			ctx.status = r.ErrorCode
		}
	}
	c.e.log.Debugf("conn %04x: local procedure rejected, status %#02x", c.handle, ctx.status)
	return c.lpComplete(ctx)
}

// lpCollided completes a local procedure whose transmission was
// overtaken by the peer initiating the same procedure. The remote
// exchange already decoded the peer data into the connection cache; the
// local context inherits that result.
func (c *Conn) lpCollided(ctx *procCtx) error {
	c.e.log.Debugf("conn %04x: local procedure %d collided with remote", c.handle, ctx.proc)
	return c.lpComplete(ctx)
}
