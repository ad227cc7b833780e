package llcp

import "testing"

func TestCtxPoolExhaustion(t *testing.T) {
	p := newCtxPool(2)

	a := p.acquire()
	b := p.acquire()
	if a == nil || b == nil {
		t.Fatal("acquire failed below capacity")
	}
	if p.acquire() != nil {
		t.Fatal("acquire beyond capacity")
	}
	if p.freeCount() != 0 {
		t.Fatalf("free = %d, want 0", p.freeCount())
	}

	p.release(a)
	p.release(b)
	if p.freeCount() != 2 {
		t.Fatalf("free = %d, want 2", p.freeCount())
	}
}

func TestTxPoolPeek(t *testing.T) {
	p := newTxPool(1)

	if !p.peek() {
		t.Fatal("peek false on full pool")
	}
	tx := p.acquire()
	if p.peek() {
		t.Fatal("peek true on empty pool")
	}
	p.release(tx)
	if !p.peek() {
		t.Fatal("peek false after release")
	}
}

func TestNtfPoolResetsNode(t *testing.T) {
	p := newNtfPool(1)

	n := p.acquire()
	n.Handle = 0x40
	n.Status = 0x1A
	n.PDU = n.buf[:3]
	p.release(n)

	n = p.acquire()
	if n.Handle != 0 || n.Status != 0 || n.PDU != nil {
		t.Fatal("node not reset on reuse")
	}
}

func TestProcListFIFO(t *testing.T) {
	var l procList

	a := &procCtx{proc: procVersionExchange}
	b := &procCtx{proc: procLEPing}

	if l.peek() != nil || l.get() != nil {
		t.Fatal("empty list not empty")
	}

	l.append(a)
	l.append(b)

	if l.peek() != a {
		t.Fatal("peek is not head")
	}
	if l.get() != a || l.get() != b || l.get() != nil {
		t.Fatal("pop order broken")
	}

	// Reusable after drain.
	l.append(b)
	if l.peek() != b {
		t.Fatal("list broken after drain")
	}
}
