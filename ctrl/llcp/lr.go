package llcp

// Local request FSM. Serializes locally initiated procedures: strict
// FIFO, one active at a time. The active procedure is the head of the
// pending list until completion dequeues it.

func (c *Conn) lrExecute(evt uint8) error {
	switch c.local.state {
	case reqStateDisconnected:
		c.lrStDisconnected(evt)
	case reqStateIdle:
		return c.lrStIdle(evt)
	case reqStateActive:
		return c.lrStActive(evt)
	}
	return nil
}

func (c *Conn) lrStDisconnected(evt uint8) {
	switch evt {
	case reqEvtConnect:
		c.local.state = reqStateIdle
	}
}

func (c *Conn) lrStIdle(evt uint8) error {
	switch evt {
	case reqEvtRun:
		ctx := c.local.pend.peek()
		if ctx == nil {
			return nil
		}
		// Go active before driving the procedure: a procedure that can
		// complete from cache finishes synchronously inside this run
		// and its COMPLETE must find the machine active.
		c.local.state = reqStateActive
		return c.lpExecute(ctx, lpEvtRun, nil)
	case reqEvtDisconnect:
		c.lrDrain()
		c.local.state = reqStateDisconnected
	}
	return nil
}

func (c *Conn) lrStActive(evt uint8) error {
	switch evt {
	case reqEvtRun:
		// Wake a procedure parked in WAIT_TX or WAIT_NTF.
		if ctx := c.local.pend.peek(); ctx != nil {
			return c.lpExecute(ctx, lpEvtRun, nil)
		}
	case reqEvtComplete:
		if ctx := c.local.pend.get(); ctx != nil {
			c.e.ctxs.release(ctx)
		}
		c.local.state = reqStateIdle
	case reqEvtDisconnect:
		c.lrDrain()
		c.local.state = reqStateDisconnected
	}
	return nil
}

func (c *Conn) lrDrain() {
	for ctx := c.local.pend.get(); ctx != nil; ctx = c.local.pend.get() {
		c.e.ctxs.release(ctx)
	}
}

func (c *Conn) lrRun() error  { return c.lrExecute(reqEvtRun) }
func (c *Conn) lrComplete()   { _ = c.lrExecute(reqEvtComplete) }
func (c *Conn) lrConnect()    { _ = c.lrExecute(reqEvtConnect) }
func (c *Conn) lrDisconnect() { _ = c.lrExecute(reqEvtDisconnect) }
