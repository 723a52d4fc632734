package oauth

import (
	"context"
	"sync"
)

// pendingAuth is the single outstanding authorization on a CallbackServer.
// It is settled exactly once, with either a credential or an error.
type pendingAuth struct {
	done chan struct{}
	once sync.Once
	cred *Credential
	err  error
}

func newPendingAuth() *pendingAuth {
	return &pendingAuth{done: make(chan struct{})}
}

// settle records the outcome and wakes every waiter. Later calls are ignored.
func (p *pendingAuth) settle(cred *Credential, err error) {
	p.once.Do(func() {
		p.cred = cred
		p.err = err
		close(p.done)
	})
}

func (p *pendingAuth) wait(ctx context.Context) (*Credential, error) {
	select {
	case <-p.done:
		return p.cred.Clone(), p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
