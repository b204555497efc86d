package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/floraledger/flora/internal/model"
)

// Repository loads and saves the business state through a Backend.
type Repository struct {
	backend   Backend
	namespace string
	defaults  model.Settings
	log       zerolog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) RepositoryOption {
	return func(r *Repository) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithDefaultSettings sets the rates of the state returned when nothing
// usable is stored.
func WithDefaultSettings(s model.Settings) RepositoryOption {
	return func(r *Repository) { r.defaults = s }
}

// WithLogger sets the repository logger.
func WithLogger(l zerolog.Logger) RepositoryOption {
	return func(r *Repository) { r.log = l }
}

// NewRepository creates a Repository over a backend.
func NewRepository(backend Backend, opts ...RepositoryOption) *Repository {
	r := &Repository{
		backend:   backend,
		namespace: DefaultNamespace,
		defaults:  model.DefaultSettings(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Namespace returns the key the state is stored under.
func (r *Repository) Namespace() string {
	return r.namespace
}

// Load returns the stored state. A missing, unreadable or malformed blob
// yields an empty state with the default settings; the problem is logged,
// never returned.
func (r *Repository) Load(ctx context.Context) model.BusinessState {
	state, err := r.LoadStrict(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		r.log.Debug().Str("namespace", r.namespace).Msg("no stored ledger, starting empty")
	case err != nil:
		r.log.Warn().Err(err).Str("namespace", r.namespace).Msg("stored ledger unusable, starting empty")
	default:
		return state
	}
	return model.NewBusinessState(r.defaults)
}

// LoadStrict returns the stored state or the error that prevented reading
// it. ErrNotFound means nothing is stored yet.
func (r *Repository) LoadStrict(ctx context.Context) (model.BusinessState, error) {
	blob, err := r.backend.Get(ctx, r.namespace)
	if err != nil {
		return model.BusinessState{}, err
	}
	state, err := Decode(blob)
	if err != nil {
		return model.BusinessState{}, fmt.Errorf("loading %s: %w", r.namespace, err)
	}
	return state, nil
}

// Save serializes the state and writes it under the namespace.
func (r *Repository) Save(ctx context.Context, state model.BusinessState) error {
	blob, err := Encode(state)
	if err != nil {
		return err
	}
	if err := r.backend.Put(ctx, r.namespace, blob); err != nil {
		return fmt.Errorf("saving %s: %w", r.namespace, err)
	}
	return nil
}

// Exists reports whether a blob is stored under the namespace.
func (r *Repository) Exists(ctx context.Context) (bool, error) {
	_, err := r.backend.Get(ctx, r.namespace)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
