package store

import (
	"context"
	"sync"

	"upi-cli/internal/model"
)

// IdentityAPI is the slice of the API client the identity probe uses.
type IdentityAPI interface {
	Me(ctx context.Context) (*model.Identity, error)
	Logout(ctx context.Context) error
}

// IdentityProbe fetches the authenticated identity once at startup and
// exposes it read-only. Only Fetch and Logout write the slot.
type IdentityProbe struct {
	api IdentityAPI

	mu sync.Mutex
	id *model.Identity
}

func NewIdentityProbe(a IdentityAPI) *IdentityProbe {
	return &IdentityProbe{api: a}
}

// Fetch loads the current identity. Anonymous sessions are not an error:
// the slot simply stays empty.
func (p *IdentityProbe) Fetch(ctx context.Context) error {
	id, err := p.api.Me(ctx)
	if err != nil {
		p.mu.Lock()
		p.id = nil
		p.mu.Unlock()
		return err
	}
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
	return nil
}

// Identity returns the fetched identity, or nil when anonymous.
func (p *IdentityProbe) Identity() *model.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// LoggedIn gates actions that require an authenticated session.
func (p *IdentityProbe) LoggedIn() bool {
	return p.Identity() != nil
}

// Logout ends the session and clears the slot.
func (p *IdentityProbe) Logout(ctx context.Context) error {
	if err := p.api.Logout(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	p.id = nil
	p.mu.Unlock()
	return nil
}
