package messaging

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// HeaderBuilder builds protocol headers for outgoing messages. Build
// failures are non-retryable configuration problems: a connector without an
// identity or a recipient that is not an absolute URI.
type HeaderBuilder struct {
	Connector string
	Clock     func() time.Time
}

func NewHeaderBuilder(connector string) *HeaderBuilder {
	return &HeaderBuilder{Connector: connector, Clock: time.Now}
}

func (b *HeaderBuilder) Build(msgType domain.MessageType, correlationID, recipient string) (domain.Message, error) {
	if b.Connector == "" {
		return domain.Message{}, fmt.Errorf("connector id is not configured: %w", domain.ErrHeaderBuild)
	}
	if msgType == "" {
		return domain.Message{}, fmt.Errorf("message type is required: %w", domain.ErrHeaderBuild)
	}
	if recipient != "" {
		parsed, err := url.Parse(recipient)
		if err != nil || !parsed.IsAbs() {
			return domain.Message{}, fmt.Errorf("recipient %q is not an absolute uri: %w", recipient, domain.ErrHeaderBuild)
		}
	}
	now := time.Now
	if b.Clock != nil {
		now = b.Clock
	}
	return domain.Message{
		ID:                 uuid.NewString(),
		Type:               msgType,
		ModelVersion:       domain.ModelVersion,
		IssuedAt:           now().UTC(),
		IssuerConnector:    b.Connector,
		RecipientConnector: recipient,
		CorrelationID:      correlationID,
	}, nil
}
