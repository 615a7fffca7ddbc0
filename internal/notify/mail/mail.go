// Package mail delivers reminders by appending a message to an IMAP
// mailbox, so they show up in the user's mail client.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	gomail "github.com/emersion/go-message/mail"

	"github.com/nhle/todos/internal/credential"
	"github.com/nhle/todos/internal/model"
)

// Appender stores a raw RFC 5322 message in a mailbox.
type Appender interface {
	Append(ctx context.Context, mailbox string, msg []byte) error
}

// Deliverer turns reminders into mail messages.
type Deliverer struct {
	appender Appender
	mailbox  string
	from     string
}

// NewDeliverer creates a deliverer appending to mailbox through a.
func NewDeliverer(a Appender, mailbox, from string) *Deliverer {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &Deliverer{appender: a, mailbox: mailbox, from: from}
}

// FromConfig builds a deliverer for cfg, reading the password from creds.
func FromConfig(cfg model.MailConfig, creds *credential.Store) (*Deliverer, error) {
	if cfg.Host == "" || cfg.Username == "" {
		return nil, fmt.Errorf("mail delivery needs host and username")
	}
	password, err := creds.Get(credential.MailPasswordKey(cfg.Username))
	if err != nil {
		return nil, fmt.Errorf("reading mail password: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	client := NewIMAPAppender(cfg.Host, cfg.Port, cfg.Username, password, cfg.TLS)
	return NewDeliverer(client, cfg.Mailbox, from), nil
}

func (d *Deliverer) Name() string { return "mail" }

func (d *Deliverer) Deliver(ctx context.Context, r model.Reminder) error {
	msg, err := BuildMessage(r, d.from, time.Now())
	if err != nil {
		return err
	}
	if err := d.appender.Append(ctx, d.mailbox, msg); err != nil {
		return fmt.Errorf("appending reminder to %s: %w", d.mailbox, err)
	}
	return nil
}

// BuildMessage renders r as a plain-text message dated date.
func BuildMessage(r model.Reminder, from string, date time.Time) ([]byte, error) {
	var h gomail.Header
	h.SetDate(date)
	h.SetSubject(r.Title)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}
	if from != "" {
		addr := []*gomail.Address{{Name: "Todos", Address: from}}
		h.SetAddressList("From", addr)
		h.SetAddressList("To", addr)
	}

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	body := r.Subtitle
	if body == "" {
		body = r.Title
	}
	if _, err := fmt.Fprintf(w, "%s\r\n", body); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}
	return buf.Bytes(), nil
}

// IMAPAppender appends messages over IMAP using go-imap v2.
type IMAPAppender struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewIMAPAppender creates an appender for the given server.
func NewIMAPAppender(host, port, username, password string, tls bool) *IMAPAppender {
	return &IMAPAppender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
	}
}

// Addr returns the host:port the appender dials.
func (a *IMAPAppender) Addr() string {
	return net.JoinHostPort(a.host, a.port)
}

// connect dials and logs in. The caller must log out.
func (a *IMAPAppender) connect() (*imapclient.Client, error) {
	addr := a.Addr()

	var (
		client *imapclient.Client
		err    error
	)
	if a.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(a.username, a.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("logging in as %s: %w", a.username, err)
	}
	return client, nil
}

// Append implements Appender.
func (a *IMAPAppender) Append(ctx context.Context, mailbox string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := a.connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	// Close the connection if ctx ends mid-command so Wait returns.
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	cmd := client.Append(mailbox, int64(len(msg)), &imap.AppendOptions{Time: time.Now()})
	if _, err := cmd.Write(msg); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("finishing append: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("append to %s: %w", mailbox, err)
	}
	return nil
}
