package messaging

import (
	"context"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
	"github.com/parwinderau/DataspaceConnector/internal/usecase"
)

// MessageHandler consumes one inbound message and returns the response the
// transport layer sends back.
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message, payload []byte) domain.ProtocolResponse
}

// Registry routes an inbound message to the handler registered for its
// declared type. It is built once at startup and read-only afterwards.
type Registry struct {
	handlers  map[domain.MessageType]MessageHandler
	responses usecase.ResponseMapper
}

func NewRegistry(responses usecase.ResponseMapper) *Registry {
	return &Registry{
		handlers:  make(map[domain.MessageType]MessageHandler),
		responses: responses,
	}
}

func (r *Registry) Register(msgType domain.MessageType, handler MessageHandler) {
	r.handlers[msgType] = handler
}

// Dispatch hands the message to the handler for its declared type. An
// unregistered type yields a "message type not supported" rejection.
func (r *Registry) Dispatch(ctx context.Context, msg domain.Message, payload []byte) domain.ProtocolResponse {
	handler, ok := r.handlers[msg.Type]
	if !ok {
		return r.responses.Map(usecase.Failure{
			Kind:      usecase.FailureMessageTypeNotSupported,
			MessageID: msg.ID,
			Issuer:    msg.IssuerConnector,
		})
	}
	return handler.Handle(ctx, msg, payload)
}
