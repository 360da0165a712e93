package alert

import (
	"context"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/patiwat/firewatch-go/internal/errors"
)

// ShoutrrrProvider delivers messages through nicholas-fedor/shoutrrr.
// One sender covers all configured URLs.
type ShoutrrrProvider struct {
	name    string
	enabled bool
	urls    []string
	sender  *router.ServiceRouter
	timeout time.Duration
}

// NewShoutrrrProvider creates a provider for the given service URLs.
func NewShoutrrrProvider(name string, enabled bool, urls []string, timeout time.Duration) *ShoutrrrProvider {
	p := &ShoutrrrProvider{
		name:    strings.TrimSpace(name),
		enabled: enabled,
		urls:    slices.Clone(urls),
		timeout: timeout,
	}
	if p.name == "" {
		p.name = "shoutrrr"
	}
	return p
}

func (p *ShoutrrrProvider) GetName() string { return p.name }
func (p *ShoutrrrProvider) IsEnabled() bool { return p.enabled }

// ValidateConfig builds the sender, which validates every configured URL.
func (p *ShoutrrrProvider) ValidateConfig() error {
	if !p.enabled {
		return nil
	}
	if len(p.urls) == 0 {
		return errors.Newf("at least one notification URL is required").
			Component("alert").
			Category(errors.CategoryConfiguration).
			Build()
	}
	sender, err := shoutrrr.CreateSender(p.urls...)
	if err != nil {
		return errors.New(err).
			Component("alert").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if p.timeout > 0 {
		sender.Timeout = p.timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	p.sender = sender
	return nil
}

// Send delivers the message bodies in order. The first failing URL's error
// is returned; remaining messages are not attempted.
func (p *ShoutrrrProvider) Send(ctx context.Context, messages []string) error {
	if p.sender == nil {
		return errors.Newf("shoutrrr sender not initialized").
			Component("alert").
			Category(errors.CategoryNotification).
			Build()
	}
	_ = ctx // the router enforces its own timeout

	for _, body := range messages {
		params := stypes.Params{}
		for _, err := range p.sender.Send(body, &params) {
			if err != nil {
				return errors.New(err).
					Component("alert").
					Category(errors.CategoryNotification).
					Build()
			}
		}
	}
	return nil
}
