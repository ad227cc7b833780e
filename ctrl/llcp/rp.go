package llcp

import "github.com/pkg/errors"

// Remote procedure common FSM. A context is created by the RX dispatcher
// for the first unmatched peer PDU, armed for that opcode, and driven
// here: decode the request, put the response on the wire, park on buffer
// starvation in between.

func (c *Conn) rpExecute(ctx *procCtx, evt uint8, p PDU) error {
	switch ctx.state {
	case rpStateIdle:
		return c.rpStIdle(ctx, evt)
	case rpStateWaitRx:
		return c.rpStWaitRx(ctx, evt, p)
	case rpStateWaitTx:
		return c.rpStWaitTx(ctx, evt)
	case rpStateWaitNtf:
		return c.rpStWaitNtf(ctx, evt)
	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: remote fsm in unknown state %d", ctx.state)
	}
}

func (c *Conn) rpStIdle(ctx *procCtx, evt uint8) error {
	switch evt {
	case rpEvtRun:
		ctx.state = rpStateWaitRx
	}
	return nil
}

func (c *Conn) rpStWaitRx(ctx *procCtx, evt uint8, p PDU) error {
	switch evt {
	case rpEvtRequest:
		if err := c.rpRxDecode(p); err != nil {
			return err
		}
		if ctx.pause {
			ctx.state = rpStateWaitTx
			return nil
		}
		return c.rpSendRsp(ctx)
	}
	return nil
}

func (c *Conn) rpStWaitTx(ctx *procCtx, evt uint8) error {
	switch evt {
	case rpEvtRun:
		if ctx.pause {
			return nil
		}
		return c.rpSendRsp(ctx)
	}
	return nil
}

// No currently supported remote procedure notifies the host, so nothing
// parks in WAIT_NTF; a RUN in this state re-enters the response path.
func (c *Conn) rpStWaitNtf(ctx *procCtx, evt uint8) error {
	switch evt {
	case rpEvtRun:
		return c.rpSendRsp(ctx)
	}
	return nil
}

func (c *Conn) rpRxDecode(p PDU) error {
	switch p.Opcode() {
	case OpVersionInd:
		if err := c.vex.cached.Unmarshal(p.CtrData()); err != nil {
			return err
		}
		c.vex.valid = true
	case OpFeatureReq:
		var f FeatureReq
		if err := f.Unmarshal(p.CtrData()); err != nil {
			return err
		}
		c.fex.features = f.FeatureSet
		c.fex.valid = true
	case OpPingReq:
		// No CtrData.
	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: unexpected request opcode %#02x", p.Opcode())
	}
	return nil
}

// rpSendRsp attempts to put the procedure's response on the wire and
// complete. Parks in WAIT_TX on buffer starvation or pause.
func (c *Conn) rpSendRsp(ctx *procCtx) error {
	switch ctx.proc {
	case procVersionExchange:
		// At most one LL_VERSION_IND is ever queued for transmission
		// during a connection. Reaching here with one already sent
		// means the peer re-ran the exchange: protocol violation.
		if c.vex.sent {
			return errors.Wrap(ErrProtocolViolation, "llcp: version already exchanged")
		}
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = rpStateWaitTx
			return nil
		}
		c.rpTx(&VersionInd{
			VersionNumber:    VersionNumber,
			CompanyID:        c.e.settings.CompanyID(),
			SubVersionNumber: c.e.settings.SubversionNumber(),
		})
		c.vex.sent = true

	case procFeatureExchange:
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = rpStateWaitTx
			return nil
		}
		c.rpTx(&FeatureRsp{FeatureSet: c.e.settings.Features()})

	case procLEPing:
		if !c.e.txs.peek() || ctx.pause {
			ctx.state = rpStateWaitTx
			return nil
		}
		c.rpTx(&PingRsp{})

	default:
		return errors.Wrapf(ErrProtocolViolation, "llcp: unknown remote procedure %d", ctx.proc)
	}

	ctx.state = rpStateIdle
	c.rrComplete()
	return nil
}

func (c *Conn) rpTx(m Message) {
	tx := c.e.txs.acquire()
	tx.PDU = encodePDU(tx.buf[:], m)
	c.txq.EnqueueCtrl(tx)
	c.e.log.Debugf("conn %04x: tx opcode %#02x", c.handle, m.Opcode())
}
