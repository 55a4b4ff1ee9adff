package registration

import (
	"context"
	"errors"
	"fmt"
	"github.com/AlekSi/pointer"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/observability"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/validation"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"strings"
	"time"
)

type EventsRepo interface {
	Get(ctx context.Context, id string) (edomain.Event, bool, error)
	ApplyRegistration(ctx context.Context, id string) (edomain.Event, error)
}

type ProofUploader interface {
	Upload(ctx context.Context, proof proofs.Proof) (string, error)
}

type Sink interface {
	Submit(ctx context.Context, sub rdomain.Submission) error
}

//go:generate mockgen -destination=mocks/mock_event_publisher.go -package=mocks github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/registration EventPublisher
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateInvalid        State = "invalid"
	StateValid          State = "valid"
	StateUploadingProof State = "uploading_proof"
	StateSubmitting     State = "submitting"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

type RegisterRequest struct {
	EventID string
	Name    string
	Email   string
	Phone   string
	Message string
	Proof   *proofs.Proof
}

type RegisterResult struct {
	Registration rdomain.Registration
	// Event reflects the seat taken by this registration.
	Event edomain.Event
}

type RegisterUsecase struct {
	eventsRepo EventsRepo
	uploader   ProofUploader
	sink       Sink
	publisher  EventPublisher
	now        func() time.Time
}

func NewRegisterUsecase(
	eventsRepo EventsRepo,
	uploader ProofUploader,
	sink Sink,
	publisher EventPublisher,
) *RegisterUsecase {
	return &RegisterUsecase{
		eventsRepo: eventsRepo,
		uploader:   uploader,
		sink:       sink,
		publisher:  publisher,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for submission timestamps.
func (u *RegisterUsecase) WithClock(now func() time.Time) *RegisterUsecase {
	u.now = now
	return u
}

type attempt struct {
	logger *logrus.Entry
	state  State
}

func (a *attempt) transition(to State) {
	a.logger.
		WithField("from", a.state).
		WithField("to", to).
		Debug("Registration state changed")
	a.state = to
}

// Register runs one registration from form validation to the confirmed seat.
// Nothing reaches the network until the form, the event and the proof all
// pass local checks, and the seat is only taken once the sink accepted the
// submission.
func (u *RegisterUsecase) Register(ctx context.Context, req RegisterRequest) (result RegisterResult, err error) {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "Register")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", req.EventID),
		attribute.Bool("registration.proof_attached", req.Proof != nil),
	)

	started := time.Now()
	a := &attempt{
		logger: log.FromContext(ctx).WithField("event_id", req.EventID),
		state:  StateIdle,
	}
	defer func() {
		outcome := outcomeOf(err)
		observability.RegistrationsTotal.WithLabelValues(outcome).Inc()
		observability.RegistrationDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
	}()

	a.transition(StateValidating)
	form := validation.RegistrationForm{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if fields := validation.ValidateRegistration(form); len(fields) > 0 {
		a.transition(StateInvalid)
		return RegisterResult{}, &rdomain.ValidationError{Fields: fields}
	}

	event, ok, err := u.eventsRepo.Get(ctx, req.EventID)
	if err != nil {
		a.transition(StateFailed)
		return RegisterResult{}, fmt.Errorf("failed to load event %s: %w", req.EventID, err)
	}
	if !ok {
		a.transition(StateInvalid)
		return RegisterResult{}, fmt.Errorf("event %s: %w", req.EventID, edomain.ErrEventNotFound)
	}
	if event.IsFull() {
		a.transition(StateInvalid)
		return RegisterResult{}, fmt.Errorf("event %s: %w", req.EventID, edomain.ErrEventFull)
	}
	a.transition(StateValid)
	span.SetAttributes(attribute.Bool("event.free", event.IsFree()))

	var proofURL *string
	if req.Proof != nil {
		a.transition(StateUploadingProof)

		if err := req.Proof.Check(); err != nil {
			a.transition(StateFailed)
			return RegisterResult{}, &rdomain.UploadError{Err: err}
		}

		url, err := u.uploader.Upload(ctx, *req.Proof)
		if err != nil {
			a.transition(StateFailed)
			return RegisterResult{}, &rdomain.UploadError{Err: err}
		}
		proofURL = pointer.ToString(url)
	}

	a.transition(StateSubmitting)
	submittedAt := u.now().UTC()
	sub := rdomain.Submission{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      pointer.ToStringOrNil(strings.TrimSpace(req.Phone)),
		EventID:    event.ID,
		EventTitle: event.Title,
		Message:    pointer.ToStringOrNil(strings.TrimSpace(req.Message)),
		ProofURL:   proofURL,
		Timestamp:  submittedAt.Format(time.RFC3339),
	}
	if err := sub.Validate(); err != nil {
		a.transition(StateFailed)
		return RegisterResult{}, &rdomain.SubmissionError{Err: err}
	}

	if err := u.sink.Submit(ctx, sub); err != nil {
		a.transition(StateFailed)
		return RegisterResult{}, &rdomain.SubmissionError{Err: err}
	}

	updated, err := u.eventsRepo.ApplyRegistration(ctx, event.ID)
	switch {
	case errors.Is(err, edomain.ErrEventFull):
		// another registration took the last seat after our capacity check;
		// the sink already has this one
		a.logger.WithField("error", err).Warn("Registration forwarded but event filled up concurrently")
	case err != nil:
		a.transition(StateFailed)
		return RegisterResult{}, fmt.Errorf("failed to apply registration to event %s: %w", event.ID, err)
	}
	observability.SpotsLeft.WithLabelValues(updated.ID).Set(float64(updated.SpotsLeft()))

	reg := rdomain.Registration{
		ID:      uuid.NewString(),
		EventID: event.ID,
		Attendee: rdomain.Attendee{
			Name:  sub.Name,
			Email: sub.Email,
			Phone: pointer.GetString(sub.Phone),
		},
		Message:         pointer.GetString(sub.Message),
		PaymentProofURL: pointer.GetString(proofURL),
		Status:          rdomain.StatusConfirmed,
		RegisteredAt:    submittedAt,
	}
	a.transition(StateSucceeded)

	u.publishConfirmed(ctx, a, reg, updated)

	return RegisterResult{
		Registration: reg,
		Event:        updated,
	}, nil
}

func (u *RegisterUsecase) publishConfirmed(ctx context.Context, a *attempt, reg rdomain.Registration, event edomain.Event) {
	err := u.publisher.Publish(ctx, rdomain.RegistrationConfirmed_v1{
		Header:         rdomain.NewEventHeader(u.now().UTC()),
		RegistrationID: reg.ID,
		EventID:        event.ID,
		EventTitle:     event.Title,
		AttendeeEmail:  reg.Attendee.Email,
		SpotsLeft:      event.SpotsLeft(),
		ProofAttached:  reg.PaymentProofURL != "",
		RegisteredAt:   reg.RegisteredAt,
	})
	if err != nil {
		a.logger.
			WithField("registration_id", reg.ID).
			WithField("error", err).
			Error("Failed to publish RegistrationConfirmed_v1")
	}
}

func outcomeOf(err error) string {
	var (
		validationErr *rdomain.ValidationError
		uploadErr     *rdomain.UploadError
		submissionErr *rdomain.SubmissionError
	)
	switch {
	case err == nil:
		return "succeeded"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.Is(err, edomain.ErrEventNotFound):
		return "not_found"
	case errors.Is(err, edomain.ErrEventFull):
		return "full"
	case errors.As(err, &uploadErr):
		if proofs.IsPolicyError(err) {
			return "proof_rejected"
		}
		return "upload_failed"
	case errors.As(err, &submissionErr):
		return "submit_failed"
	default:
		return "error"
	}
}
