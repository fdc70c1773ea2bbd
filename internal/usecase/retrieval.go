package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// ArtifactRetrieval sends the artifact request that pulls data under an
// existing transfer contract. It reuses the message dispatcher; a not-sent
// transport result surfaces as domain.ErrMessageNotSent and retrying is up
// to the caller.
type ArtifactRetrieval struct {
	Dispatcher Dispatcher
}

type artifactRequestPayload struct {
	TransferContract string             `json:"transferContract"`
	QueryInput       *domain.QueryInput `json:"queryInput,omitempty"`
}

// Execute dispatches one artifact request to the given recipient. The
// ForceDownload tri-state of info decides whether a request goes out at all:
// false suppresses the download unconditionally, nil lets the connector
// decide (it downloads over multipart, defers otherwise), true always
// dispatches.
func (r *ArtifactRetrieval) Execute(ctx context.Context, recipient string, info domain.RetrievalInformation) (domain.TransportResult, error) {
	if info.TransferContract == "" {
		return domain.TransportResult{}, domain.ErrMissingTransferContract
	}
	if !shouldDownload(info) {
		return domain.TransportResult{}, nil
	}

	payload, err := json.Marshal(artifactRequestPayload{
		TransferContract: info.TransferContract,
		QueryInput:       info.QueryInput,
	})
	if err != nil {
		return domain.TransportResult{}, fmt.Errorf("marshal artifact request: %w", err)
	}

	result := r.Dispatcher.Send(ctx, domain.MessageDesc{
		Type:      domain.MessageTypeArtifactRequest,
		Recipient: recipient,
	}, payload)
	if !result.Sent {
		return result, domain.ErrMessageNotSent
	}
	return result, nil
}

func shouldDownload(info domain.RetrievalInformation) bool {
	if info.ForceDownload != nil {
		return *info.ForceDownload
	}
	return info.Protocol == domain.ProtocolMultipart || info.Protocol == ""
}
