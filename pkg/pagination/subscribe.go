package pagination

// Subscribe returns a channel of state snapshots and a function that
// unsubscribes and closes the channel. The channel immediately holds the
// current state. A slow subscriber only ever sees the latest snapshot; older
// undelivered snapshots are replaced, never torn.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	c.subsMu.Lock()
	ch <- c.snapshotLocked()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()
	c.mu.Unlock()

	unsubscribe := func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// publishLocked delivers the current state to every subscriber, replacing
// any snapshot the subscriber has not consumed yet. Callers hold c.mu so
// snapshots are delivered in mutation order.
func (c *Controller) publishLocked() State {
	snapshot := c.snapshotLocked()

	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
	return snapshot
}
