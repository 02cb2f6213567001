// Package emailsvc delivers the report e-mails of the dashboard.
package emailsvc

import (
	"net/mail"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/masomo-dashboard/core"
)

func fromAddress(conf *core.Config) mail.Address {
	if addr, err := mail.ParseAddress(conf.DefaultFromEmail); err == nil {
		if addr.Name == "" {
			addr.Name = conf.AppName
		}
		return *addr
	}
	return mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail}
}

// sendAll renders and sends every message concurrently, then returns the first error.
// Messages without recipients or content are skipped.
func sendAll(appName string, messages []*core.EmailMessage, send func(msg core.EmailMessage) error) error {
	var g errgroup.Group
	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			if err := msg.Render(appName); err != nil {
				return errors.Wrap(err, "rendering email")
			}
			if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
				return nil
			}
			return send(*msg)
		})
	}
	return g.Wait()
}
