// Package cookies persists small named values with an expiry on disk.
package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/logging"
)

var (
	ErrNoCookie    = errors.New("cookie not found")
	ErrDisabled    = errors.New("cookies are disabled")
	ErrInvalidName = errors.New("invalid cookie name")
)

// Store is the key/value backend of a Jar. *diskv.Diskv satisfies it.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	Keys(cancel <-chan struct{}) <-chan string
}

type record struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// Jar is a disk-backed cookie jar.
type Jar struct {
	store    Store
	disabled bool
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Jar.
type Option func(*Jar)

// WithDisabled turns every read into ErrDisabled and every write into a no-op
// returning ErrDisabled.
func WithDisabled(disabled bool) Option {
	return func(j *Jar) { j.disabled = disabled }
}

// WithStore replaces the disk backend.
func WithStore(store Store) Option {
	return func(j *Jar) { j.store = store }
}

// WithNow overrides the wall clock used for expiry.
func WithNow(now func() time.Time) Option {
	return func(j *Jar) { j.now = now }
}

// NewJar opens a jar rooted at dir.
func NewJar(dir string, opts ...Option) *Jar {
	j := &Jar{
		now:    time.Now,
		logger: logging.Component("cookies"),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.store == nil && dir != "" {
		j.store = diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 64 * 1024,
		})
	}
	return j
}

// Enabled reports whether the jar can store values.
func (j *Jar) Enabled() bool {
	return !j.disabled && j.store != nil
}

// Get returns the value of a live cookie. Missing, expired and malformed
// cookies all report ErrNoCookie.
func (j *Jar) Get(name string) (string, error) {
	if !j.Enabled() {
		return "", ErrDisabled
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	raw, err := j.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCookie
		}
		return "", fmt.Errorf("read cookie %s: %w", name, err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		j.logger.Warn().Err(err).Str("cookie", name).Msg("discarding malformed cookie")
		return "", ErrNoCookie
	}
	if !rec.Expires.IsZero() && !j.now().Before(rec.Expires) {
		if err := j.store.Erase(name); err != nil {
			j.logger.Debug().Err(err).Str("cookie", name).Msg("failed to erase expired cookie")
		}
		return "", ErrNoCookie
	}
	return rec.Value, nil
}

// Set stores value under name for maxAge. A non-positive maxAge deletes the
// cookie.
func (j *Jar) Set(name, value string, maxAge time.Duration) error {
	if !j.Enabled() {
		return ErrDisabled
	}
	if err := validateName(name); err != nil {
		return err
	}
	if maxAge <= 0 {
		return j.Delete(name)
	}

	raw, err := json.Marshal(record{Value: value, Expires: j.now().Add(maxAge).UTC()})
	if err != nil {
		return fmt.Errorf("encode cookie %s: %w", name, err)
	}
	if err := j.store.Write(name, raw); err != nil {
		return fmt.Errorf("write cookie %s: %w", name, err)
	}
	return nil
}

// Delete removes a cookie. Deleting a missing cookie is not an error.
func (j *Jar) Delete(name string) error {
	if !j.Enabled() {
		return ErrDisabled
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := j.store.Erase(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cookie %s: %w", name, err)
	}
	return nil
}

// Names lists every stored cookie name, live or not.
func (j *Jar) Names() []string {
	if !j.Enabled() {
		return nil
	}
	done := make(chan struct{})
	defer close(done)

	var names []string
	for key := range j.store.Keys(done) {
		names = append(names, key)
	}
	return names
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\ ;=`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
