// Package usersync keeps the local user collection in step with the identity
// provider.  Webhook delivery is at-least-once and unordered, so every
// handler is an idempotent upsert or delete keyed by the subject id; the
// store's unique index on that id is the only concurrency control.
//
// An update for a subject with no local record creates it.  Creation events
// can be lost or arrive after the update, and the update carries the full
// profile anyway.
package usersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/satvik-sharma-05/movieBooking/internal/config"
	"github.com/satvik-sharma-05/movieBooking/internal/metrics"
	"github.com/satvik-sharma-05/movieBooking/internal/model"
	"github.com/satvik-sharma-05/movieBooking/internal/repository"
)

// UserStore is the document store holding synced users.
type UserStore interface {
	Upsert(ctx context.Context, u model.User) (created bool, err error)
	FindByExternalID(ctx context.Context, externalID string) (model.User, error)
	DeleteByExternalID(ctx context.Context, externalID string) (deleted bool, err error)
}

// ProfileFetcher loads the full provider profile for a subject id.
type ProfileFetcher interface {
	GetUser(ctx context.Context, id string) (model.ProviderUser, error)
}

// Outcome describes the write a handler performed.
type Outcome struct {
	ExternalID string
	Created    bool // a new record was inserted
	Deleted    bool // a record was removed
}

// Result is what Dispatch reports back to the webhook endpoint or consumer.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`

	// Terminal is set for failures that processing the event again cannot fix.
	Terminal bool `json:"-"`
	// Retryable is set for failures worth redelivering.
	Retryable bool `json:"-"`
}

// Pipeline applies identity-provider user events to the store.
type Pipeline struct {
	store    UserStore
	profiles ProfileFetcher
	validate *validator.Validate
	cfg      config.SyncConfig
	log      *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// New wires a pipeline.  store and profiles are required.
func New(store UserStore, profiles ProfileFetcher, cfg config.SyncConfig, logger *slog.Logger) *Pipeline {
	if store == nil || profiles == nil {
		panic("usersync: nil store or profile fetcher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Pipeline{
		store:    store,
		profiles: profiles,
		validate: validator.New(),
		cfg:      cfg,
		log:      logger.With("component", "usersync"),
		sleep:    sleepCtx,
	}
}

// Dispatch routes ev to its handler and folds the outcome into a Result.
// Unknown event types are acknowledged and skipped.
func (p *Pipeline) Dispatch(ctx context.Context, ev model.UserEvent) Result {
	ev.Normalize()
	kind := ev.EventKind()
	start := time.Now()
	defer func() { metrics.SyncDuration.WithLabelValues(eventLabel(kind)).Observe(time.Since(start).Seconds()) }()

	var err error
	switch kind {
	case model.EventUserCreated:
		_, err = p.HandleUserCreated(ctx, ev)
	case model.EventUserUpdated:
		_, err = p.HandleUserUpdated(ctx, ev)
	case model.EventUserDeleted:
		_, err = p.HandleUserDeleted(ctx, ev)
	default:
		p.log.Info("sync: ignoring event type", "type", ev.Type, "external_id", ev.Data.ID)
		metrics.SyncEvents.WithLabelValues(eventLabel(kind), metrics.OutcomeSkipped).Inc()
		return Result{Success: true, Skipped: true}
	}

	if err == nil {
		metrics.SyncEvents.WithLabelValues(kind, metrics.OutcomeOK).Inc()
		return Result{Success: true}
	}

	res := Result{Error: err.Error(), Terminal: IsTerminal(err), Retryable: Retryable(err)}
	if res.Terminal {
		metrics.SyncEvents.WithLabelValues(kind, metrics.OutcomeRejected).Inc()
		p.log.Warn("sync: event rejected", "type", ev.Type, "external_id", ev.Data.ID, "error", err)
	} else {
		metrics.SyncEvents.WithLabelValues(kind, metrics.OutcomeFailed).Inc()
		p.log.Error("sync: event failed", "type", ev.Type, "external_id", ev.Data.ID, "retryable", res.Retryable, "error", err)
	}
	return res
}

// eventLabel bounds metric label values to the handled event types.
func eventLabel(kind string) string {
	switch kind {
	case model.EventUserCreated, model.EventUserUpdated, model.EventUserDeleted:
		return kind
	}
	return "other"
}

// HandleUserCreated resolves the profile and upserts it.  Replays of the same
// event leave exactly one record.
func (p *Pipeline) HandleUserCreated(ctx context.Context, ev model.UserEvent) (Outcome, error) {
	u, err := p.resolve(ctx, ev.Data)
	if err != nil {
		return Outcome{}, err
	}
	created, err := p.upsert(ctx, u)
	if err != nil {
		return Outcome{}, err
	}
	p.log.Info("sync: user created", "external_id", u.ExternalID, "inserted", created)
	return Outcome{ExternalID: u.ExternalID, Created: created}, nil
}

// HandleUserUpdated overwrites name, email and image of the subject's record,
// creating the record when it is missing.
func (p *Pipeline) HandleUserUpdated(ctx context.Context, ev model.UserEvent) (Outcome, error) {
	u, err := p.resolve(ctx, ev.Data)
	if err != nil {
		return Outcome{}, err
	}
	created, err := p.upsert(ctx, u)
	if err != nil {
		return Outcome{}, err
	}
	if created {
		p.log.Warn("sync: update for unknown user, record created", "external_id", u.ExternalID)
	} else {
		p.log.Info("sync: user updated", "external_id", u.ExternalID)
	}
	return Outcome{ExternalID: u.ExternalID, Created: created}, nil
}

// HandleUserDeleted removes the subject's record.  Deleting an unknown
// subject succeeds without touching the store.
func (p *Pipeline) HandleUserDeleted(ctx context.Context, ev model.UserEvent) (Outcome, error) {
	id := ev.Data.ID
	if id == "" {
		return Outcome{}, &ValidationError{Field: "data.id", Message: "missing subject id"}
	}
	var deleted bool
	err := p.retry(ctx, "delete", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
		defer cancel()
		d, err := p.store.DeleteByExternalID(ctx, id)
		if err != nil {
			return &PersistenceError{Op: "delete", ExternalID: id, Err: err}
		}
		deleted = d
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if deleted {
		p.log.Info("sync: user deleted", "external_id", id)
	} else {
		p.log.Info("sync: delete for unknown user, nothing to do", "external_id", id)
	}
	return Outcome{ExternalID: id, Deleted: deleted}, nil
}

// Lookup returns the local record for a subject.
func (p *Pipeline) Lookup(ctx context.Context, externalID string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	defer cancel()
	u, err := p.store.FindByExternalID(ctx, externalID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return model.User{}, &NotFoundError{ExternalID: externalID}
	case err != nil:
		return model.User{}, &PersistenceError{Op: "find", ExternalID: externalID, Err: err}
	}
	return u, nil
}

// resolve builds the validated record for data, fetching the full profile
// when the inline copy is not enough.
func (p *Pipeline) resolve(ctx context.Context, data model.ProviderUser) (model.User, error) {
	if data.ID == "" {
		return model.User{}, &ValidationError{Field: "data.id", Message: "missing subject id"}
	}
	src := data
	if !inlineSufficient(data) {
		fetched, err := p.fetch(ctx, data.ID)
		if err != nil {
			return model.User{}, err
		}
		src = mergeProfiles(fetched, data)
	}
	u := NormalizeUser(src)
	if err := p.validate.Struct(u); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return model.User{}, &ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			}
		}
		return model.User{}, &ValidationError{Field: "user", Message: err.Error()}
	}
	return u, nil
}

func (p *Pipeline) fetch(ctx context.Context, id string) (model.ProviderUser, error) {
	var u model.ProviderUser
	err := p.retry(ctx, "fetch", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.cfg.IdentityTimeout)
		defer cancel()
		got, err := p.profiles.GetUser(ctx, id)
		if err != nil {
			return newUpstreamError(id, err)
		}
		u = got
		return nil
	})
	return u, err
}

func (p *Pipeline) upsert(ctx context.Context, u model.User) (bool, error) {
	var created bool
	err := p.retry(ctx, "upsert", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
		defer cancel()
		c, err := p.store.Upsert(ctx, u)
		if err != nil {
			return &PersistenceError{Op: "upsert", ExternalID: u.ExternalID, Err: err}
		}
		created = c
		return nil
	})
	return created, err
}

// IsTerminal reports failures caused by the event itself rather than by a
// collaborator: processing it again gives the same answer.
func IsTerminal(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
	)
	return errors.As(err, &ve) || errors.As(err, &nf)
}
