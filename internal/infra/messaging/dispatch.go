package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// Multipart part names of a protocol message.
const (
	PartHeader  = "header"
	PartPayload = "payload"
)

// Dispatcher builds a protocol header for an outgoing message, frames header
// and payload into a multipart body and transmits it. Failures never cross
// this boundary as errors: every failure is logged with its kind, context
// and correlation ID and returned as a not-sent TransportResult. The
// dispatcher performs zero retries and imposes no deadline of its own;
// callers bound the call through ctx.
type Dispatcher struct {
	Headers *HeaderBuilder
	Client  *http.Client
	Logger  *zap.Logger
}

func NewDispatcher(headers *HeaderBuilder, client *http.Client, logger *zap.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Headers: headers, Client: client, Logger: logger}
}

func (d *Dispatcher) Send(ctx context.Context, desc domain.MessageDesc, payload []byte) domain.TransportResult {
	header, err := d.Headers.Build(desc.Type, desc.CorrelationID, desc.Recipient)
	if err != nil {
		d.Logger.Info("message could not be built",
			zap.String("failureKind", string(domain.DispatchFailureHeaderBuild)),
			zap.String("messageType", string(desc.Type)),
			zap.String("recipient", desc.Recipient),
			zap.String("correlationId", desc.CorrelationID),
			zap.Error(err),
		)
		return domain.TransportResult{Failure: domain.DispatchFailureHeaderBuild, Err: err}
	}

	body, contentType, err := frameMultipart(header, payload)
	if err != nil {
		d.Logger.Info("message could not be built",
			zap.String("failureKind", string(domain.DispatchFailureHeaderBuild)),
			zap.String("messageId", header.ID),
			zap.String("correlationId", desc.CorrelationID),
			zap.Error(err),
		)
		return domain.TransportResult{Failure: domain.DispatchFailureHeaderBuild, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, desc.Recipient, body)
	if err != nil {
		d.Logger.Info("message could not be sent",
			zap.String("failureKind", string(domain.DispatchFailureTransmission)),
			zap.String("messageId", header.ID),
			zap.String("recipient", desc.Recipient),
			zap.String("correlationId", desc.CorrelationID),
			zap.Error(err),
		)
		return domain.TransportResult{Failure: domain.DispatchFailureTransmission, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.Client.Do(req)
	if err != nil {
		d.Logger.Info("message could not be sent",
			zap.String("failureKind", string(domain.DispatchFailureTransmission)),
			zap.String("messageId", header.ID),
			zap.String("recipient", desc.Recipient),
			zap.String("correlationId", desc.CorrelationID),
			zap.Error(err),
		)
		return domain.TransportResult{Failure: domain.DispatchFailureTransmission, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.Logger.Info("message was refused by recipient",
			zap.String("failureKind", string(domain.DispatchFailureRejectedBySend)),
			zap.String("messageId", header.ID),
			zap.String("recipient", desc.Recipient),
			zap.String("correlationId", desc.CorrelationID),
			zap.Int("status", resp.StatusCode),
		)
		return domain.TransportResult{
			StatusCode: resp.StatusCode,
			Failure:    domain.DispatchFailureRejectedBySend,
			Err:        domain.ErrMessageNotSent,
		}
	}

	return domain.TransportResult{Sent: true, StatusCode: resp.StatusCode}
}

// frameMultipart packages a header and payload into the two-part protocol
// body.
func frameMultipart(header domain.Message, payload []byte) (*bytes.Buffer, string, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormField(PartHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(headerJSON); err != nil {
		return nil, "", err
	}
	part, err = w.CreateFormField(PartPayload)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

