package testutil

import (
	"context"
	"sync"

	"github.com/nhle/todos/internal/model"
)

// GatewayCall records one call made to a Gateway.
type GatewayCall struct {
	Method  string
	Options model.AuthorizationOptions
	Request model.ReminderRequest
}

// Gateway is an in-memory notification gateway that records every call.
// Set Grant to control RequestAuthorization and the Err fields to make
// the matching method fail.
type Gateway struct {
	Grant bool

	AuthErr   error
	RemoveErr error
	AddErr    error

	mu      sync.Mutex
	calls   []GatewayCall
	pending map[string]model.ReminderRequest
}

// NewGateway returns a Gateway that grants authorization.
func NewGateway() *Gateway {
	return &Gateway{Grant: true, pending: make(map[string]model.ReminderRequest)}
}

func (g *Gateway) RequestAuthorization(_ context.Context, opts model.AuthorizationOptions) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, GatewayCall{Method: "RequestAuthorization", Options: opts})
	if g.AuthErr != nil {
		return false, g.AuthErr
	}
	return g.Grant, nil
}

func (g *Gateway) RemoveAllPending(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, GatewayCall{Method: "RemoveAllPending"})
	if g.RemoveErr != nil {
		return g.RemoveErr
	}
	g.pending = make(map[string]model.ReminderRequest)
	return nil
}

func (g *Gateway) Add(_ context.Context, req model.ReminderRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, GatewayCall{Method: "Add", Request: req})
	if g.AddErr != nil {
		return g.AddErr
	}
	g.pending[req.Identifier] = req
	return nil
}

// Calls returns the recorded calls in order.
func (g *Gateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayCall(nil), g.calls...)
}

// Methods returns the names of the recorded calls in order.
func (g *Gateway) Methods() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, len(g.calls))
	for i, c := range g.calls {
		names[i] = c.Method
	}
	return names
}

// Pending returns the reminders added and not yet removed.
func (g *Gateway) Pending() []model.ReminderRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.ReminderRequest, 0, len(g.pending))
	for _, r := range g.pending {
		out = append(out, r)
	}
	return out
}
