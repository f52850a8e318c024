package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// Source supplies the current settings. Implementations must be safe for
// concurrent use.
type Source interface {
	Settings() Settings
}

// Notifier is a Source that reports reloads.
type Notifier interface {
	Source
	OnChange(fn func(Settings))
}

// Static is a Source that never changes.
type Static Settings

// Settings returns the wrapped settings
func (s Static) Settings() Settings {
	return Settings(s).Normalize()
}

// Provider holds the settings loaded from a file and reloads them when the
// file changes on disk.
type Provider struct {
	path string
	log  zerolog.Logger

	mu       sync.RWMutex
	current  Settings
	onChange []func(Settings)
}

// NewProvider loads the settings at path. A malformed file is reported
// but the provider still starts with defaults.
func NewProvider(path string, log zerolog.Logger) (*Provider, error) {
	cfg, err := LoadSettingsFrom(path)
	p := &Provider{
		path:    path,
		log:     log.With().Str("component", "config").Logger(),
		current: cfg,
	}
	return p, err
}

// Path returns the settings file path
func (p *Provider) Path() string {
	return p.path
}

// Settings returns a copy of the current settings
func (p *Provider) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// OnChange registers fn to be called after every successful reload.
func (p *Provider) OnChange(fn func(Settings)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Update applies fn to the current settings and saves them.
func (p *Provider) Update(fn func(*Settings)) error {
	p.mu.Lock()
	next := p.current
	fn(&next)
	next = next.Normalize()
	if err := SaveSettingsTo(p.path, next); err != nil {
		p.mu.Unlock()
		return err
	}
	p.current = next
	p.mu.Unlock()

	p.notify(next)
	return nil
}

// Reload re-reads the settings file. On a parse failure the previous
// settings are kept.
func (p *Provider) Reload() error {
	cfg, err := LoadSettingsFrom(p.path)
	if err != nil {
		p.log.Warn().Err(err).Msg("keeping previous settings")
		return err
	}

	p.mu.Lock()
	p.current = cfg
	p.mu.Unlock()

	p.log.Debug().Str("path", p.path).Msg("settings reloaded")
	p.notify(cfg)
	return nil
}

func (p *Provider) notify(cfg Settings) {
	p.mu.RLock()
	hooks := append([]func(Settings){}, p.onChange...)
	p.mu.RUnlock()

	for _, fn := range hooks {
		fn(cfg)
	}
}

// Watch reloads the settings whenever the file is written, until ctx is
// done. The parent directory is watched so that atomic renames and late
// file creation are seen.
func (p *Provider) Watch(ctx context.Context) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !p.isSettingsEvent(event) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					_ = p.Reload()
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn().Err(err).Msg("settings watcher error")

			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	return nil
}

func (p *Provider) isSettingsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(p.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Override mutates settings on top of a base Source.
type Override func(*Settings)

type overlay struct {
	base      Source
	overrides []Override
}

// WithOverrides layers command-line overrides on top of base. The base is
// consulted on every call so reloads still apply to untouched fields.
func WithOverrides(base Source, overrides ...Override) Source {
	if len(overrides) == 0 {
		return base
	}
	return &overlay{base: base, overrides: overrides}
}

// OnChange forwards to the base when it reports reloads. fn receives the
// settings with the overrides applied.
func (o *overlay) OnChange(fn func(Settings)) {
	if n, ok := o.base.(Notifier); ok {
		n.OnChange(func(Settings) { fn(o.Settings()) })
	}
}

func (o *overlay) Settings() Settings {
	s := o.base.Settings()
	for _, apply := range o.overrides {
		apply(&s)
	}
	return s.Normalize()
}
