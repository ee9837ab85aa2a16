package worldcache

import "sync"

// SingleFlight deduplicates concurrent work for the same key: the first
// caller for a key runs fn; any callers that arrive while it is in flight
// block and receive its result instead of recomputing. This is a small
// hand-rolled primitive rather than golang.org/x/sync/singleflight because
// nothing else in this module's dependency surface pulls in
// golang.org/x/sync, and the shape needed here is this one operation.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val interface{}
	err error
}

// NewSingleFlight creates an empty SingleFlight group.
func NewSingleFlight() *SingleFlight {
	return &SingleFlight{calls: make(map[string]*call)}
}

// Do executes fn for key, or waits for and returns an in-flight call's
// result if one is already running for the same key.
func (g *SingleFlight) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	c := new(call)
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err
}
