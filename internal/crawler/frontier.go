package crawler

import "sync"

// State is the lifecycle state of a Frontier.
type State int

const (
	// StateRunning means URLs are still being handed out.
	StateRunning State = iota

	// StateExhausted means the pending set drained with all work complete.
	StateExhausted

	// StateBudgetReached means the visited set hit the page budget.
	StateBudgetReached
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	case StateBudgetReached:
		return "budget-reached"
	default:
		return "unknown"
	}
}

// Frontier maintains the visited and pending sets of one crawl run and
// hands out URLs to workers. The dequeue order is insertion-order FIFO,
// which makes single-worker crawls fully deterministic and reproducible.
//
// Design decision: All set mutation goes through one mutex inside this
// type; workers never touch the sets directly. A condition variable lets
// Acquire block while the queue is momentarily empty but other workers
// are still in flight and may publish new links.
//
// Invariants:
//   - the visited set only grows, never shrinks
//   - a URL never sits in both visited and pending once a step completes
//   - marking visited happens inside Acquire, before the fetch, so a URL
//     is processed at most once even when rediscovered concurrently
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// queue holds pending URLs in insertion order. pending mirrors its
	// membership for O(1) duplicate checks.
	queue   []string
	pending map[string]bool

	// visited holds every URL handed out, successful or not.
	visited map[string]bool

	// duplicates counts URLs popped but discarded because another path
	// already led to them.
	duplicates int

	// inFlight counts URLs acquired but not yet completed.
	inFlight int

	// maxPages is the page budget; zero means unlimited.
	maxPages int

	state     State
	cancelled bool
}

// Stats is a point-in-time snapshot of frontier counters.
type Stats struct {
	Visited    int
	Pending    int
	Duplicates int
}

// NewFrontier creates a Frontier with the given page budget.
// A budget of zero means unlimited.
func NewFrontier(maxPages int) *Frontier {
	f := &Frontier{
		pending:  make(map[string]bool),
		visited:  make(map[string]bool),
		maxPages: maxPages,
		state:    StateRunning,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Seed enqueues the initial URLs and returns how many were accepted.
func (f *Frontier) Seed(urls []string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, u := range urls {
		if f.enqueueLocked(u) {
			n++
		}
	}
	f.cond.Broadcast()
	return n
}

// Acquire blocks until a URL is available and returns it with ok=true,
// marking it visited (the commit point: once visited, never reprocessed).
// It returns ok=false when the frontier reached a terminal state or was
// cancelled. Every successful Acquire must be paired with a Complete.
func (f *Frontier) Acquire() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.cancelled || f.state != StateRunning {
			return "", false
		}

		if f.maxPages > 0 && len(f.visited) >= f.maxPages {
			f.state = StateBudgetReached
			f.cond.Broadcast()
			return "", false
		}

		if len(f.queue) == 0 {
			if f.inFlight == 0 {
				f.state = StateExhausted
				f.cond.Broadcast()
				return "", false
			}
			// Workers in flight may still publish links.
			f.cond.Wait()
			continue
		}

		u := f.queue[0]
		f.queue = f.queue[1:]
		delete(f.pending, u)

		// Duplicate suppression: several pages can discover the same
		// link before either is processed.
		if f.visited[u] {
			f.duplicates++
			continue
		}

		f.visited[u] = true
		f.inFlight++
		return u, true
	}
}

// Complete reports a processed URL, enqueueing any newly discovered
// links. Pass nil links when the strategy does not follow links.
func (f *Frontier) Complete(links []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range links {
		f.enqueueLocked(u)
	}
	f.inFlight--
	f.cond.Broadcast()
}

// Cancel stops the frontier: blocked and future Acquire calls return
// ok=false. In-flight work is allowed to Complete normally.
func (f *Frontier) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = true
	f.cond.Broadcast()
}

// Cancelled reports whether the frontier was stopped before reaching a
// terminal state.
func (f *Frontier) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled && f.state == StateRunning
}

// State returns the current lifecycle state.
func (f *Frontier) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Stats returns current counters.
func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Visited:    len(f.visited),
		Pending:    len(f.queue),
		Duplicates: f.duplicates,
	}
}

// enqueueLocked adds a URL to the pending queue unless it is already
// visited or pending. Caller holds f.mu.
func (f *Frontier) enqueueLocked(u string) bool {
	if u == "" || f.visited[u] || f.pending[u] {
		return false
	}
	f.pending[u] = true
	f.queue = append(f.queue, u)
	return true
}
