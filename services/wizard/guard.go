package wizard

import "sync"

// submissionGuard keeps an at-most-once in-flight marker per session. The
// marker lives in process memory rather than in the cached session snapshot:
// a second confirm arriving before the session write lands must still see
// the first one in flight.
type submissionGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newSubmissionGuard() *submissionGuard {
	return &submissionGuard{inflight: make(map[string]struct{})}
}

// attempt runs fn unless a submission for the session is already in flight,
// in which case it reports skipped without calling fn. The marker is set
// before fn starts and cleared when fn settles, success or error.
func (g *submissionGuard) attempt(sessionID string, fn func() error) (skipped bool, err error) {
	g.mu.Lock()
	if _, busy := g.inflight[sessionID]; busy {
		g.mu.Unlock()
		return true, nil
	}
	g.inflight[sessionID] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inflight, sessionID)
		g.mu.Unlock()
	}()

	return false, fn()
}
