package permission_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/ui/permission"
)

type result struct {
	granted bool
	err     error
}

func confirmAsync(p *permission.Prompter, ctx context.Context) <-chan result {
	out := make(chan result, 1)
	go func() {
		g, err := p.Confirm(ctx, model.AuthorizationAlert)
		out <- result{g, err}
	}()
	return out
}

func nextRequest(t *testing.T, p *permission.Prompter) permission.Request {
	t.Helper()
	msg := p.WaitForRequest()()
	req, ok := msg.(permission.RequestMsg)
	require.True(t, ok, "expected a RequestMsg, got %T", msg)
	return req.Request
}

func await(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Confirm did not return")
		return result{}
	}
}

func TestPrompter_Answer(t *testing.T) {
	p := permission.NewPrompter()
	defer p.Close()

	res := confirmAsync(p, context.Background())
	req := nextRequest(t, p)
	assert.Equal(t, model.AuthorizationAlert, req.Options)

	req.Answer(true)

	r := await(t, res)
	require.NoError(t, r.err)
	assert.True(t, r.granted)
}

func TestPrompter_Dismiss(t *testing.T) {
	p := permission.NewPrompter()
	defer p.Close()

	res := confirmAsync(p, context.Background())
	nextRequest(t, p).Dismiss()

	r := await(t, res)
	assert.ErrorIs(t, r.err, permission.ErrDismissed)
	assert.False(t, r.granted)
}

func TestPrompter_CloseReleasesWaiters(t *testing.T) {
	p := permission.NewPrompter()

	res := confirmAsync(p, context.Background())
	nextRequest(t, p)
	p.Close()
	p.Close()

	r := await(t, res)
	assert.ErrorIs(t, r.err, permission.ErrClosed)
	assert.Nil(t, p.WaitForRequest()())
}

func TestPrompter_ContextCancelled(t *testing.T) {
	p := permission.NewPrompter()
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	res := confirmAsync(p, ctx)
	cancel()

	r := await(t, res)
	assert.ErrorIs(t, r.err, context.Canceled)
}
