package llcp

// NodeTx is a pooled transmit buffer for one control PDU. Once handed to
// TxQueue.EnqueueCtrl the lower link layer owns it; the embedding returns
// it through Engine.ReleaseTx when transmission completes.
type NodeTx struct {
	next *NodeTx

	// PDU is the framed control PDU, sliced out of buf.
	PDU PDU

	buf [ctrlPDUMaxSize]byte
}

// NodeRx is a pooled host-bound notification node. Once handed to
// NtfSink.Enqueue the host ring owns it; the embedding returns it through
// Engine.ReleaseNtf once consumed.
type NodeRx struct {
	next *NodeRx

	// Handle is the connection the notification belongs to.
	Handle uint16

	// Status is the procedure completion status, 0x00 on success.
	Status uint8

	// PDU carries the notification payload, nil for error completions.
	PDU PDU

	buf [ctrlPDUMaxSize]byte
}

// The three pools are fixed free lists over nodes allocated once at
// engine construction. Exhaustion is reported through peek/acquire and is
// recoverable; callers park and retry rather than fail.

type ctxPool struct {
	free     *procCtx
	capacity int
	avail    int
}

func newCtxPool(n int) *ctxPool {
	p := &ctxPool{capacity: n, avail: n}
	for i := 0; i < n; i++ {
		p.free = &procCtx{next: p.free}
	}
	return p
}

func (p *ctxPool) acquire() *procCtx {
	ctx := p.free
	if ctx == nil {
		return nil
	}
	p.free = ctx.next
	ctx.next = nil
	p.avail--
	return ctx
}

func (p *ctxPool) release(ctx *procCtx) {
	ctx.next = p.free
	p.free = ctx
	p.avail++
}

func (p *ctxPool) freeCount() int { return p.avail }

type txPool struct {
	free     *NodeTx
	capacity int
	avail    int
}

func newTxPool(n int) *txPool {
	p := &txPool{capacity: n, avail: n}
	for i := 0; i < n; i++ {
		p.free = &NodeTx{next: p.free}
	}
	return p
}

func (p *txPool) peek() bool { return p.free != nil }

func (p *txPool) acquire() *NodeTx {
	tx := p.free
	if tx == nil {
		return nil
	}
	p.free = tx.next
	tx.next = nil
	tx.PDU = nil
	p.avail--
	return tx
}

func (p *txPool) release(tx *NodeTx) {
	tx.next = p.free
	p.free = tx
	p.avail++
}

func (p *txPool) freeCount() int { return p.avail }

type ntfPool struct {
	free     *NodeRx
	capacity int
	avail    int
}

func newNtfPool(n int) *ntfPool {
	p := &ntfPool{capacity: n, avail: n}
	for i := 0; i < n; i++ {
		p.free = &NodeRx{next: p.free}
	}
	return p
}

func (p *ntfPool) peek() bool { return p.free != nil }

func (p *ntfPool) acquire() *NodeRx {
	ntf := p.free
	if ntf == nil {
		return nil
	}
	p.free = ntf.next
	ntf.next = nil
	ntf.Handle = 0
	ntf.Status = 0
	ntf.PDU = nil
	p.avail--
	return ntf
}

func (p *ntfPool) release(ntf *NodeRx) {
	ntf.next = p.free
	p.free = ntf
	p.avail++
}

func (p *ntfPool) freeCount() int { return p.avail }
