package xmpp

import (
	"crypto/tls"
	"strings"

	"github.com/mattn/go-xmpp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type (
	// Config of the notification account
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
		// Insecure skips the server certificate check
		Insecure bool
	}

	Xmpp struct {
		Config Config
	}
)

var ErrNotConfigured = errors.New("missing xmpp config")

func serverName(jid string) string {
	if i := strings.LastIndex(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

// Enabled is false until an account and a recipient are configured
func (x *Xmpp) Enabled() bool {
	return x != nil && x.Config.Jid != "" && x.Config.Password != "" && x.Config.To != ""
}

func (x *Xmpp) options() xmpp.Options {
	host := x.Config.Host
	if host == "" {
		host = serverName(x.Config.Jid)
	}
	return xmpp.Options{
		Host:          host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		TLSConfig:     &tls.Config{ServerName: serverName(x.Config.Jid), InsecureSkipVerify: x.Config.Insecure},
		Session:       false,
		Status:        "xa",
		StatusMessage: "nav-router",
	}
}

// Send a chat message to the configured recipient
func (x *Xmpp) Send(message string) error {
	if !x.Enabled() {
		return ErrNotConfigured
	}

	options := x.options()
	log.WithFields(log.Fields{
		"host": options.Host,
		"user": options.User,
	}).Debug("Create xmpp client")

	talk, err := options.NewClient()
	if err != nil {
		return errors.Wrapf(err, "connect to '%s'", options.Host)
	}
	defer talk.Close()

	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		return errors.Wrapf(err, "send message to '%s'", x.Config.To)
	}
	return nil
}
