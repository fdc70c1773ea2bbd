package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

type dispatcherStub struct {
	result  domain.TransportResult
	descs   []domain.MessageDesc
	payload []byte
}

func (s *dispatcherStub) Send(_ context.Context, desc domain.MessageDesc, payload []byte) domain.TransportResult {
	s.descs = append(s.descs, desc)
	s.payload = payload
	return s.result
}

func boolPtr(v bool) *bool { return &v }

func TestRetrieval_MissingTransferContract(t *testing.T) {
	r := &ArtifactRetrieval{Dispatcher: &dispatcherStub{}}
	_, err := r.Execute(context.Background(), testProvider, domain.RetrievalInformation{})
	if !errors.Is(err, domain.ErrMissingTransferContract) {
		t.Fatalf("err = %v, want ErrMissingTransferContract", err)
	}
}

func TestRetrieval_ForceDownloadFalseSuppressesRequest(t *testing.T) {
	dispatcher := &dispatcherStub{result: domain.TransportResult{Sent: true}}
	r := &ArtifactRetrieval{Dispatcher: dispatcher}
	info := domain.RetrievalInformation{
		TransferContract: "https://provider.example/agreements/1",
		ForceDownload:    boolPtr(false),
		Protocol:         domain.ProtocolMultipart,
	}
	result, err := r.Execute(context.Background(), testProvider, info)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Sent {
		t.Fatal("expected no dispatch")
	}
	if len(dispatcher.descs) != 0 {
		t.Fatalf("dispatched %d messages, want 0", len(dispatcher.descs))
	}
}

func TestRetrieval_UnsetForceDownloadFollowsProtocol(t *testing.T) {
	dispatcher := &dispatcherStub{result: domain.TransportResult{Sent: true, StatusCode: 200}}
	r := &ArtifactRetrieval{Dispatcher: dispatcher}

	info := domain.RetrievalInformation{
		TransferContract: "https://provider.example/agreements/1",
		Protocol:         domain.ProtocolIDSCP2,
	}
	if _, err := r.Execute(context.Background(), testProvider, info); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(dispatcher.descs) != 0 {
		t.Fatal("expected no dispatch over a non-multipart protocol")
	}

	info.Protocol = domain.ProtocolMultipart
	result, err := r.Execute(context.Background(), testProvider, info)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Sent {
		t.Fatal("expected a dispatched request")
	}
	if len(dispatcher.descs) != 1 || dispatcher.descs[0].Type != domain.MessageTypeArtifactRequest {
		t.Fatalf("descs = %+v, want one artifact request", dispatcher.descs)
	}
}

func TestRetrieval_ForceDownloadTrueOverridesProtocol(t *testing.T) {
	dispatcher := &dispatcherStub{result: domain.TransportResult{Sent: true}}
	r := &ArtifactRetrieval{Dispatcher: dispatcher}
	info := domain.RetrievalInformation{
		TransferContract: "https://provider.example/agreements/1",
		ForceDownload:    boolPtr(true),
		Protocol:         domain.ProtocolIDSCP2,
		QueryInput: &domain.QueryInput{
			Params: map[string]string{"limit": "10"},
		},
	}
	if _, err := r.Execute(context.Background(), testProvider, info); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(dispatcher.descs) != 1 {
		t.Fatalf("dispatched %d messages, want 1", len(dispatcher.descs))
	}

	var payload struct {
		TransferContract string             `json:"transferContract"`
		QueryInput       *domain.QueryInput `json:"queryInput"`
	}
	if err := json.Unmarshal(dispatcher.payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.TransferContract != info.TransferContract {
		t.Fatalf("transferContract = %q", payload.TransferContract)
	}
	if payload.QueryInput == nil || payload.QueryInput.Params["limit"] != "10" {
		t.Fatalf("queryInput = %+v", payload.QueryInput)
	}
}

func TestRetrieval_NotSentSurfacesError(t *testing.T) {
	dispatcher := &dispatcherStub{result: domain.TransportResult{
		Failure: domain.DispatchFailureTransmission,
		Err:     errors.New("connection refused"),
	}}
	r := &ArtifactRetrieval{Dispatcher: dispatcher}
	info := domain.RetrievalInformation{
		TransferContract: "https://provider.example/agreements/1",
		ForceDownload:    boolPtr(true),
	}
	result, err := r.Execute(context.Background(), testProvider, info)
	if !errors.Is(err, domain.ErrMessageNotSent) {
		t.Fatalf("err = %v, want ErrMessageNotSent", err)
	}
	if result.Failure != domain.DispatchFailureTransmission {
		t.Fatalf("failure = %q, want transmission", result.Failure)
	}
}
