package backends

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/jpillora/backoff"
	"github.com/koivumail/mail-prefs-api/accounts"
	"github.com/koivumail/mail-prefs-api/errors"
)

// CheckIncoming validates incoming server settings by connecting to
// the IMAP server, authenticating and logging out again.
func (m *Manager) CheckIncoming(ctx context.Context, settings accounts.ServerSettings) error {
	m.limiter.Take()

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))

	client, err := m.dialIMAP(ctx, addr, settings.Security)
	if err != nil {
		return asValidationError(err)
	}

	if settings.Username != "" {
		if err := client.Login(settings.Username, settings.Password).Wait(); err != nil {
			_ = client.Logout().Wait()
			return &errors.RequestError{
				StatusCode: http.StatusUnauthorized,
				Err:        fmt.Errorf("authentication failed for %s: %w", settings.Username, err),
			}
		}
	}

	if err := client.Logout().Wait(); err != nil {
		_ = client.Close()
	}

	return nil
}

// CheckOutgoing validates outgoing server settings by connecting to
// the SMTP server, authenticating and quitting again.
func (m *Manager) CheckOutgoing(ctx context.Context, settings accounts.ServerSettings) error {
	m.limiter.Take()

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))

	conn, err := m.dialSMTP(ctx, addr, settings)
	if err != nil {
		return asValidationError(err)
	}

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		_ = conn.Close()
		return asValidationError(err)
	}
	defer client.Close()

	if settings.Security == accounts.SecurityStartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: settings.Host}); err != nil {
			return asValidationError(err)
		}
	}

	if settings.Username != "" {
		auth := smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
		if err := client.Auth(auth); err != nil {
			return &errors.RequestError{
				StatusCode: http.StatusUnauthorized,
				Err:        fmt.Errorf("authentication failed for %s: %w", settings.Username, err),
			}
		}
	}

	return client.Quit()
}

// dialIMAP connects to an IMAP server, retrying transient dial
// failures with exponential backoff.
func (m *Manager) dialIMAP(ctx context.Context, addr string, security accounts.ConnectionSecurity) (*imapclient.Client, error) {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Jitter: true,
	}

	var client *imapclient.Client
	var err error

	for attempt := 0; attempt < m.cfg.DialMaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		switch security {
		case accounts.SecuritySSL:
			client, err = imapclient.DialTLS(addr, nil)
		case accounts.SecurityStartTLS:
			client, err = imapclient.DialStartTLS(addr, nil)
		default:
			client, err = imapclient.DialInsecure(addr, nil)
		}

		if err == nil {
			return client, nil
		}

		if !errors.IsConnectionError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}

	return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
}

func (m *Manager) dialSMTP(ctx context.Context, addr string, settings accounts.ServerSettings) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: m.cfg.ValidationTimeout}

	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Jitter: true,
	}

	var conn net.Conn
	var err error

	for attempt := 0; attempt < m.cfg.DialMaxRetries; attempt++ {
		if settings.Security == accounts.SecuritySSL {
			tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: settings.Host}}
			conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
		} else {
			conn, err = dialer.DialContext(ctx, "tcp", addr)
		}

		if err == nil {
			return conn, nil
		}

		if !errors.IsConnectionError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}

	return nil, fmt.Errorf("connecting to SMTP %s: %w", addr, err)
}

func asValidationError(err error) error {
	if errors.IsConnectionError(err) {
		return &errors.RequestError{
			StatusCode: http.StatusBadGateway,
			Err:        err,
		}
	}
	return err
}
