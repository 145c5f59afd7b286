// Package respond records accept/decline answers by queueing the matching
// notification and confirmation mails.
package respond

import (
	"context"
	"log/slog"

	"github.com/wondertwin-ai/videoinvite/internal/directory"
	"github.com/wondertwin-ai/videoinvite/internal/mail"
	"github.com/wondertwin-ai/videoinvite/internal/metrics"
)

// Result is the JSON string returned to the browser.
type Result string

const (
	ResultOK  Result = "ok"
	ResultErr Result = "err"
)

// Composer builds the outbound messages.
type Composer interface {
	Acceptance(p directory.Person, reference string) (mail.Message, error)
	Decline(p directory.Person) (mail.Message, error)
	Confirmation(p directory.Person) (mail.Message, error)
}

// Queue accepts messages for background delivery.
type Queue interface {
	Enqueue(m mail.Message) bool
}

// Options tune the response policy.
type Options struct {
	// RejectUnknown answers "err" for identifiers that are not configured
	// people instead of responding on behalf of a synthesized person.
	RejectUnknown bool
}

// Service handles accept and decline submissions.
type Service struct {
	dir      *directory.Directory
	composer Composer
	queue    Queue
	logger   *slog.Logger
	metrics  *metrics.Metrics
	opts     Options
}

// New creates a Service.
func New(dir *directory.Directory, c Composer, q Queue, logger *slog.Logger, m *metrics.Metrics, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dir:      dir,
		composer: c,
		queue:    q,
		logger:   logger,
		metrics:  m,
		opts:     opts,
	}
}

// Accept queues the acceptance notice and the confirmation for email.
func (s *Service) Accept(ctx context.Context, email, reference string) Result {
	p, ok := s.lookup(email)
	if !ok {
		s.logger.InfoContext(ctx, "person not found when accepting", "email", email)
		return s.result("accept", ResultErr)
	}

	s.logger.InfoContext(ctx, "accepts",
		"name", p.Name,
		"email", p.Email,
		"reference", reference,
	)

	s.dispatch(ctx, func() (mail.Message, error) { return s.composer.Acceptance(p, reference) })
	s.dispatch(ctx, func() (mail.Message, error) { return s.composer.Confirmation(p) })
	return s.result("accept", ResultOK)
}

// Decline queues the decline notice for email.
func (s *Service) Decline(ctx context.Context, email string) Result {
	p, ok := s.lookup(email)
	if !ok {
		s.logger.InfoContext(ctx, "person not found when declining", "email", email)
		return s.result("decline", ResultErr)
	}

	s.logger.InfoContext(ctx, "declines", "name", p.Name, "email", p.Email)

	s.dispatch(ctx, func() (mail.Message, error) { return s.composer.Decline(p) })
	return s.result("decline", ResultOK)
}

// lookup resolves email, reporting false when there is no usable record.
func (s *Service) lookup(email string) (directory.Person, bool) {
	if !directory.Usable(directory.Decode(email)) {
		return directory.Person{}, false
	}
	if s.opts.RejectUnknown {
		return s.dir.Find(email)
	}
	return s.dir.Resolve(email), true
}

// dispatch composes and queues one message. Composition and queueing
// failures are logged only; they never change the caller's result.
func (s *Service) dispatch(ctx context.Context, compose func() (mail.Message, error)) {
	m, err := compose()
	if err != nil {
		s.logger.ErrorContext(ctx, "composing mail", "err", err)
		return
	}
	s.queue.Enqueue(m)
}

func (s *Service) result(action string, r Result) Result {
	s.metrics.Response(action, string(r))
	return r
}
