package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"slices"

	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrUnexpectedContentType is returned when a profile URL answers with something that
// cannot be a vCard, typically the HTML login page of a CardDAV server.
var ErrUnexpectedContentType = errors.New(config.ErrContentType)

// ProfileFetcher retrieves a remote vCard holding the infant profile.
type ProfileFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements ProfileFetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads the profile card at targetURL. Only http and https are allowed, the
// response must declare a vCard-compatible media type (or none), the body is capped at
// config.MaxHTTPResponseSize and query strings never reach the logs.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgProfileFetch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCardAccept)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile download failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Profile server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("profile server returned unexpected status: %s", resp.Status)
	}

	if err := checkVCardMediaType(resp.Header.Get(config.HeaderContentType)); err != nil {
		_ = resp.Body.Close()
		log.Warn(config.ErrContentType, config.LogKeyMediaType, resp.Header.Get(config.HeaderContentType))
		return nil, err
	}

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// checkVCardMediaType accepts an absent header or one of config.VCardMediaTypes.
func checkVCardMediaType(header string) error {
	if header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnexpectedContentType, header)
	}
	if !slices.Contains(config.VCardMediaTypes, mediaType) {
		return fmt.Errorf("%w: %s", ErrUnexpectedContentType, mediaType)
	}
	return nil
}

// limitedReadCloser pairs the size-limited reader with the body's Close.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
