package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/tresorier/caisse/internal/logger"
)

// Notifier pushes operational messages (closing reminders) to an external
// channel through a shoutrrr URL. With no URL configured it only logs.
type Notifier struct {
	url string
}

func NewNotifier(url string) *Notifier {
	return &Notifier{url: url}
}

// Send delivers a message. Delivery is best-effort; failures are logged and
// swallowed.
func (n *Notifier) Send(title, message string) {
	if n == nil || n.url == "" {
		logger.WithFields(map[string]interface{}{"title": title}).Info(message)
		return
	}

	if err := shoutrrr.Send(n.url, fmt.Sprintf("%s: %s", title, message)); err != nil {
		logger.WithFields(map[string]interface{}{"title": title}).WithError(err).Error("notification delivery failed")
	}
}
