package kernel

// Context is a task's handle on the kernel.
type Context struct {
	k *Kernel
}

// NewContext returns a context for code that runs outside a task, such as
// system setup and teardown.
func NewContext(k *Kernel) *Context {
	return &Context{k: k}
}

// RecvChan returns the inbound queue behind a receive capability.
func (c *Context) RecvChan(epCap Capability) (<-chan Message, bool) {
	if !epCap.valid() || !epCap.canRecv() {
		return nil, false
	}
	c.k.mu.Lock()
	defer c.k.mu.Unlock()
	if epCap.ep >= c.k.endpointCount || c.k.endpoints[epCap.ep].ch == nil {
		return nil, false
	}
	return c.k.endpoints[epCap.ep].ch, true
}

// Recv blocks until a message arrives on epCap.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	ch, ok := c.RecvChan(epCap)
	if !ok {
		return Message{}, false
	}
	msg, ok := <-ch
	return msg, ok
}

// TryRecv returns a queued message on epCap, if any.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	ch, ok := c.RecvChan(epCap)
	if !ok {
		return Message{}, false
	}
	select {
	case msg, ok := <-ch:
		return msg, ok
	default:
		return Message{}, false
	}
}

func checkTo(toCap Capability) SendResult {
	switch {
	case !toCap.valid():
		return SendErrInvalidToCap
	case !toCap.canSend():
		return SendErrToNoSendRight
	}
	return SendOK
}

// SendCapResult sends from the endpoint behind fromCap, so the receiver sees
// it in Message.From, and transfers xfer if it is valid.
func (c *Context) SendCapResult(fromCap, toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	switch {
	case !fromCap.valid():
		return SendErrInvalidFromCap
	case !fromCap.canSend():
		return SendErrFromNoSendRight
	}
	if res := checkTo(toCap); res != SendOK {
		return res
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload, xfer)
}

// SendToCapResult sends an anonymous message (From is 0) and transfers xfer
// if it is valid.
func (c *Context) SendToCapResult(toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if res := checkTo(toCap); res != SendOK {
		return res
	}
	return c.k.send(0, toCap.ep, kind, payload, xfer)
}

// SendToCapRetry is SendToCapResult that waits one tick and retries while the
// destination queue is full, at most limit times.
func (c *Context) SendToCapRetry(toCap Capability, kind uint16, payload []byte, xfer Capability, limit int) SendResult {
	res := c.SendToCapResult(toCap, kind, payload, xfer)
	for i := 0; res == SendErrQueueFull && i < limit; i++ {
		c.WaitTick(c.NowTick())
		res = c.SendToCapResult(toCap, kind, payload, xfer)
	}
	return res
}

// NewEndpoint allocates an endpoint and returns a capability for it.
func (c *Context) NewEndpoint(rights Rights) Capability {
	return c.k.NewEndpoint(rights)
}

// NowTick returns the current tick.
func (c *Context) NowTick() uint64 { return c.k.nowTick() }

// WaitTick blocks until the tick passes after and returns the new tick.
func (c *Context) WaitTick(after uint64) uint64 { return c.k.waitTick(after) }

// TickChan forwards tick advances to the returned channel until done closes.
// Slow readers miss ticks rather than stall the forwarder.
//
// If the tick source has stopped, the forwarder stays parked in WaitTick after
// done closes and exits at the next tick.
func (c *Context) TickChan(done <-chan struct{}, buf int) <-chan uint64 {
	out := make(chan uint64, buf)
	last := c.NowTick()
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			last = c.WaitTick(last)
			select {
			case out <- last:
			default:
			}
		}
	}()
	return out
}
