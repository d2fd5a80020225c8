package calendar

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SubmitGuard hands out one-time form tokens and refuses a token that is
// in flight or was used within ttl.
type SubmitGuard struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[uuid.UUID]tokenState
}

type tokenState struct {
	inFlight  bool
	dateAdded time.Time
}

func NewSubmitGuard(ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[uuid.UUID]tokenState),
	}
}

func (g *SubmitGuard) NewToken() string {
	return uuid.NewString()
}

// Begin claims token. It returns false for a malformed token, or one that
// is in flight or already used.
func (g *SubmitGuard) Begin(token string) bool {
	id, err := uuid.Parse(token)
	if err != nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune()
	if _, ok := g.tokens[id]; ok {
		return false
	}
	g.tokens[id] = tokenState{inFlight: true, dateAdded: g.now()}
	return true
}

// Finish marks token as used so a replay is refused until it expires.
func (g *SubmitGuard) Finish(token string) {
	id, err := uuid.Parse(token)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens[id] = tokenState{dateAdded: g.now()}
}

// Abort releases token so the same form can be submitted again.
func (g *SubmitGuard) Abort(token string) {
	id, err := uuid.Parse(token)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tokens, id)
}

// caller holds mu
func (g *SubmitGuard) prune() {
	for id, state := range g.tokens {
		if !state.inFlight && g.now().Sub(state.dateAdded) > g.ttl {
			delete(g.tokens, id)
		}
	}
}
