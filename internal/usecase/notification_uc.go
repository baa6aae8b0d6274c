package usecase

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"
	"poster-commerce/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// Templater renders a message template by key.
type Templater interface {
	T(key string, args ...interface{}) string
}

const (
	TemplateBirthday    = "sms_birthday"
	TemplateAnniversary = "sms_anniversary"
)

// DispatchOutcome is the result of greeting one recipient.
type DispatchOutcome struct {
	Occasion model.Occasion
	Result   adapter.SMSResult
	Err      error
}

// OccasionSummary folds a run's outcomes.
type OccasionSummary struct {
	Matched int `json:"matched"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

type NotificationUseCase interface {
	// SendSMS relays a single admin-composed message.
	SendSMS(ctx context.Context, to, body string) (adapter.SMSResult, error)
	// Occasions loads all users and returns a lazy sequence that sends one
	// greeting per birthday or anniversary falling on today. Sending happens
	// as the sequence is consumed; a failed send is reported, not fatal.
	Occasions(ctx context.Context, today time.Time) (iter.Seq[DispatchOutcome], error)
	// RunOccasions greets everyone whose occasion is today in the configured
	// time zone and logs each failure.
	RunOccasions(ctx context.Context) (OccasionSummary, error)
}

type notificationUC struct {
	users repository.UserRepository
	sms   adapter.SMSSender
	tmpl  Templater
	loc   *time.Location
	log   *zerolog.Logger
}

func NewNotificationUseCase(users repository.UserRepository, sms adapter.SMSSender, tmpl Templater, loc *time.Location, logger *zerolog.Logger) *notificationUC {
	if loc == nil {
		loc = time.UTC
	}
	return &notificationUC{users: users, sms: sms, tmpl: tmpl, loc: loc, log: logger}
}

func (n *notificationUC) SendSMS(ctx context.Context, to, body string) (adapter.SMSResult, error) {
	to, body = strings.TrimSpace(to), strings.TrimSpace(body)
	if to == "" || body == "" {
		return adapter.SMSResult{}, domain.ErrInvalidArgument
	}
	return n.sms.Send(ctx, to, body)
}

func (n *notificationUC) Occasions(ctx context.Context, today time.Time) (iter.Seq[DispatchOutcome], error) {
	users, err := n.users.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return func(yield func(DispatchOutcome) bool) {
		for _, u := range users {
			for _, occ := range model.OccasionsOn(u, today) {
				if ctx.Err() != nil {
					return
				}
				out := DispatchOutcome{Occasion: occ}
				out.Result, out.Err = n.sms.Send(ctx, occ.Mobile, n.render(occ))
				if !yield(out) {
					return
				}
			}
		}
	}, nil
}

func (n *notificationUC) render(occ model.Occasion) string {
	key := TemplateBirthday
	if occ.Kind == model.OccasionAnniversary {
		key = TemplateAnniversary
	}
	return n.tmpl.T(key, occ.RecipientName)
}

// Summarize drains seq. onFail, when set, sees every failed outcome.
func Summarize(seq iter.Seq[DispatchOutcome], onFail func(DispatchOutcome)) OccasionSummary {
	var s OccasionSummary
	for out := range seq {
		s.Matched++
		if out.Err != nil {
			s.Failed++
			if onFail != nil {
				onFail(out)
			}
			continue
		}
		s.Sent++
	}
	return s
}

func (n *notificationUC) RunOccasions(ctx context.Context) (OccasionSummary, error) {
	defer logging.TraceDuration(n.log, "NotificationUC.RunOccasions")()

	seq, err := n.Occasions(ctx, time.Now().In(n.loc))
	if err != nil {
		return OccasionSummary{}, err
	}
	sum := Summarize(seq, func(out DispatchOutcome) {
		n.log.Warn().Err(out.Err).
			Str("kind", string(out.Occasion.Kind)).
			Str("owner_id", out.Occasion.OwnerID).
			Bool("customer", out.Occasion.FromCustomer).
			Msg("occasion sms failed")
	})
	return sum, ctx.Err()
}
