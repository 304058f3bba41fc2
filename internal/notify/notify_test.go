package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/directory-service/internal/notify"
	"jobmate/directory-service/pkg/logging"
)

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	channels []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	b, _ := message.([]byte)
	p.payloads = append(p.payloads, b)
	return redis.NewIntResult(1, p.err)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", notify.FirstName("  Ada   Lovelace "))
	assert.Equal(t, "Cher", notify.FirstName("Cher"))
	assert.Equal(t, "", notify.FirstName("   "))
}

func TestRenderWelcome(t *testing.T) {
	html, err := notify.RenderWelcome("Acme Ventures", "Ada", []string{"Engineering", "Data"}, "https://jobs.example.com/jobs")
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "Acme Ventures Talent Network")
	assert.Contains(t, html, ">Engineering</span>")
	assert.Contains(t, html, ">Data</span>")
	assert.Contains(t, html, `href="https://jobs.example.com/jobs"`)
}

func TestRenderWelcome_EscapesInput(t *testing.T) {
	html, err := notify.RenderWelcome("Acme", "<script>", nil, "javascript:alert(1)")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, `href="javascript:`)
}

func TestDispatcher_SendWelcome(t *testing.T) {
	pub := &fakePublisher{}
	d := notify.NewDispatcher(pub, "Acme Ventures <talent@acme.test>", "https://jobs.acme.test", logging.NewNop())

	require.NoError(t, d.SendWelcome(context.Background(), "ada@example.com", "Ada Lovelace", []string{"Data"}))

	require.Equal(t, []string{notify.EmailChannel}, pub.channels)
	var e notify.Email
	require.NoError(t, json.Unmarshal(pub.payloads[0], &e))
	assert.Equal(t, "ada@example.com", e.To)
	assert.Equal(t, "Acme Ventures <talent@acme.test>", e.From)
	assert.Equal(t, notify.WelcomeSubject, e.Subject)
	assert.Contains(t, e.HTML, "Hi Ada,")
	assert.Contains(t, e.HTML, "Acme Ventures Talent Network")
}

func TestDispatcher_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	d := notify.NewDispatcher(pub, "talent@acme.test", "https://jobs.acme.test", logging.NewNop())

	err := d.Send(context.Background(), notify.Email{To: "a@b.test"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestDispatcher_SendWelcomeAsyncSwallowsErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	d := notify.NewDispatcher(pub, "talent@acme.test", "https://jobs.acme.test", logging.NewNop())

	d.SendWelcomeAsync("ada@example.com", "Ada", []string{"Data"})
	require.NoError(t, d.Shutdown(context.Background()))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Len(t, pub.channels, 1)
}
