package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/directory-service/pkg/logging"
)

// EmailChannel is the Redis channel the mail relay subscribes to.
const EmailChannel = "CMD_SEND_EMAIL"

// Publisher is the subset of the Redis client used for dispatch.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Dispatcher publishes emails for the relay. Welcome emails are sent in the
// background; their failures are logged and never reach the caller.
type Dispatcher struct {
	pub     Publisher
	from    string
	siteURL string
	timeout time.Duration
	log     *logging.Logger

	wg sync.WaitGroup
}

// NewDispatcher returns a configured Dispatcher. from is an RFC 5322 address
// such as "Talent Network <talent@example.com>".
func NewDispatcher(pub Publisher, from, siteURL string, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		pub:     pub,
		from:    from,
		siteURL: siteURL,
		timeout: 10 * time.Second,
		log:     log.With("component", "notify"),
	}
}

// Send publishes e on EmailChannel.
func (d *Dispatcher) Send(ctx context.Context, e Email) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	if err := d.pub.Publish(ctx, EmailChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", EmailChannel, err)
	}
	return nil
}

// SendWelcome renders and publishes the welcome email.
func (d *Dispatcher) SendWelcome(ctx context.Context, to, fullName string, departments []string) error {
	html, err := RenderWelcome(d.brand(), FirstName(fullName), departments, d.siteURL)
	if err != nil {
		return fmt.Errorf("render welcome: %w", err)
	}
	return d.Send(ctx, Email{To: to, From: d.from, Subject: WelcomeSubject, HTML: html})
}

// SendWelcomeAsync sends the welcome email in the background.
func (d *Dispatcher) SendWelcomeAsync(to, fullName string, departments []string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.SendWelcome(ctx, to, fullName, departments); err != nil {
			d.log.Warn("welcome email failed", "to", to, "err", err)
		}
	}()
}

// Shutdown waits for background sends to finish or ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// brand is the display name of the sender address.
func (d *Dispatcher) brand() string {
	addr, err := mail.ParseAddress(d.from)
	if err != nil || addr.Name == "" {
		return "Talent Network"
	}
	return addr.Name
}
