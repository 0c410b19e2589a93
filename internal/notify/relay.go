package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cardrelay/cardrelay/internal/event"
	"github.com/cardrelay/cardrelay/internal/metrics"
	"github.com/cardrelay/cardrelay/internal/render"
	"github.com/cardrelay/cardrelay/internal/store"
	"github.com/cardrelay/cardrelay/internal/webhook"
	"github.com/cardrelay/cardrelay/pkg/card"
)

// Sender delivers a rendered card message to the webhook.
type Sender interface {
	Send(ctx context.Context, msg card.Message) error
}

// Publisher receives each processing record as it is recorded.
type Publisher interface {
	Publish(rec store.Record)
}

// Relay processes inbound notification events end to end. Every event
// produces exactly one delivery attempt and one history record; failures
// are turned into error cards rather than surfaced to the caller.
type Relay struct {
	sender   Sender
	store    *store.Store
	stream   Publisher
	metrics  *metrics.Registry
	renderer *render.Renderer
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Relay. stream may be nil when no live stream is wired;
// sender, st, and reg are required.
func New(sender Sender, st *store.Store, stream Publisher, reg *metrics.Registry) *Relay {
	return &Relay{
		sender:   sender,
		store:    st,
		stream:   stream,
		metrics:  reg,
		renderer: render.New(),
		now:      time.Now,
	}
}

// Process handles one raw notification event and returns the resulting
// record. It never returns an error: parse and classification failures
// render an error card, which is delivered in place of the regular one,
// and every outcome lands in the history either way.
func (r *Relay) Process(ctx context.Context, raw []byte) store.Record {
	r.metrics.IncReceived()

	rec := store.Record{ProcessedAt: r.now()}

	env, err := event.Parse(raw)
	if err != nil {
		return r.fail(ctx, rec, err)
	}
	rec.Subject = env.Subject
	rec.MessageID = env.MessageID

	payload, err := env.ParsePayload()
	if err != nil {
		return r.fail(ctx, rec, err)
	}

	res := event.Classify(payload, env.Message)
	rec.Kind = string(res.Kind)
	r.metrics.IncClassified(rec.Kind)
	slog.Info("relay: processing notification", "kind", rec.Kind, "message_id", rec.MessageID)

	var doc card.Document
	switch res.Kind {
	case event.KindAlarm:
		doc = r.renderer.Alarm(res.Fields)
	case event.KindAuditEvent:
		doc = r.renderer.AuditEvent(res.Fields)
	case event.KindCostAnomaly:
		doc = r.renderer.CostAnomaly(res.Fields)
	default:
		doc = r.renderer.Generic(env)
	}

	if err := r.deliver(ctx, doc); err != nil {
		rec.Outcome = store.OutcomeDeliveryFailed
		rec.Error = err.Error()
	} else {
		rec.Outcome = store.OutcomeDelivered
	}
	return r.record(rec)
}

// fail renders the error card for err, delivers it best-effort, and
// records the failure.
func (r *Relay) fail(ctx context.Context, rec store.Record, err error) store.Record {
	slog.Error("relay: processing failed", "err", err)
	r.metrics.IncProcessingError()

	if derr := r.deliver(ctx, r.renderer.Error(err)); derr != nil {
		slog.Error("relay: error card delivery failed", "err", derr)
	}

	rec.Outcome = store.OutcomeError
	rec.Error = err.Error()
	return r.record(rec)
}

// deliver sends one document and classifies the failure mode: an HTTP
// error status from the webhook versus a connection that never produced
// a response.
func (r *Relay) deliver(ctx context.Context, doc card.Document) error {
	err := r.sender.Send(ctx, card.NewMessage(doc))
	if err == nil {
		slog.Info("relay: card delivered")
		r.metrics.IncDelivered()
		return nil
	}

	var se *webhook.StatusError
	if errors.As(err, &se) {
		slog.Error("relay: webhook delivery failed", "status", se.Code)
		r.metrics.IncDeliveryFailure(metrics.FailureHTTP)
	} else {
		slog.Error("relay: webhook connection failed", "err", err)
		r.metrics.IncDeliveryFailure(metrics.FailureConnection)
	}
	return err
}

func (r *Relay) record(rec store.Record) store.Record {
	r.store.Add(rec)
	if r.stream != nil {
		r.stream.Publish(rec)
	}
	return rec
}
