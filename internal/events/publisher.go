package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
)

const (
	subjectRoot = "estimator"

	KindState   = "state"
	KindContact = "contact"
)

// SessionToken turns a free-form session name into a single NATS subject token.
// Empty names map to "default".
func SessionToken(session string) string {
	token := slug.Make(session)
	if token == "" {
		return "default"
	}
	return token
}

// Subject returns the subject for kind in session, e.g. "estimator.front-desk.state".
func Subject(session, kind string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, SessionToken(session), kind)
}

// AllSubjects matches every estimator subject.
const AllSubjects = subjectRoot + ".>"

// Envelope is the message body published for every snapshot.
type Envelope struct {
	Session   string          `json:"session"`
	Timestamp time.Time       `json:"timestamp"`
	State     estimator.State `json:"state"`
}

// Publisher publishes snapshots for one wizard session.
type Publisher struct {
	nc      *nats.Conn
	session string
	now     func() time.Time
}

// NewPublisher creates a publisher for session.
func NewPublisher(nc *nats.Conn, session string) *Publisher {
	return &Publisher{nc: nc, session: SessionToken(session), now: time.Now}
}

// Session returns the subject token used for this publisher.
func (p *Publisher) Session() string {
	return p.session
}

// Observer adapts the publisher to estimator.Observer. Publish errors are
// logged and dropped so the wizard never sees them.
func (p *Publisher) Observer() estimator.Observer {
	return func(s estimator.State) {
		if err := p.Publish(s); err != nil {
			logger.Warn("Failed to publish state: %v", err)
		}
	}
}

// Publish sends one snapshot. The contact email is stripped; only its
// status goes on the wire.
func (p *Publisher) Publish(s estimator.State) error {
	data, err := json.Marshal(Envelope{Session: p.session, Timestamp: p.now(), State: redact(s)})
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := p.nc.Publish(Subject(p.session, KindState), data); err != nil {
		return fmt.Errorf("publishing state: %w", err)
	}
	return nil
}

// redact removes personal data from a snapshot before it is published.
func redact(s estimator.State) estimator.State {
	s.Email = ""
	return s
}

// Acknowledge signals that a contact form was submitted. The message has no
// body: the email address never leaves the process.
func (p *Publisher) Acknowledge() error {
	if err := p.nc.Publish(Subject(p.session, KindContact), nil); err != nil {
		return fmt.Errorf("publishing contact acknowledgment: %w", err)
	}
	return nil
}

// Event is a decoded message received by Subscribe.
type Event struct {
	Subject  string
	Kind     string
	Envelope Envelope // zero for contact acknowledgments
}

// Subscribe delivers every estimator event to fn until the subscription is
// drained or unsubscribed.
func Subscribe(nc *nats.Conn, fn func(Event)) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(AllSubjects, func(msg *nats.Msg) {
		ev := Event{Subject: msg.Subject, Kind: kindOf(msg.Subject)}
		if ev.Kind == KindState {
			if err := json.Unmarshal(msg.Data, &ev.Envelope); err != nil {
				logger.Warn("Dropping malformed state on %s: %v", msg.Subject, err)
				return
			}
		}
		fn(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", AllSubjects, err)
	}
	return sub, nil
}

func kindOf(subject string) string {
	return subject[strings.LastIndex(subject, ".")+1:]
}
