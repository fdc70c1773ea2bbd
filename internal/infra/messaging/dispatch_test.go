package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

func TestSend_HeaderBuildFailureIsNotSent(t *testing.T) {
	d := NewDispatcher(&HeaderBuilder{}, nil, nil)
	result := d.Send(context.Background(), domain.MessageDesc{
		Type:      domain.MessageTypeContractAgreement,
		Recipient: "https://consumer.example/api/ids/data",
	}, []byte("{}"))
	if result.Sent {
		t.Fatal("expected a not-sent result")
	}
	if result.Failure != domain.DispatchFailureHeaderBuild {
		t.Fatalf("failure = %q, want header_build", result.Failure)
	}
	if !errors.Is(result.Err, domain.ErrHeaderBuild) {
		t.Fatalf("err = %v, want ErrHeaderBuild", result.Err)
	}
}

func TestSend_TransmissionFailureIsNotSent(t *testing.T) {
	d := NewDispatcher(NewHeaderBuilder("https://provider.example/connector"), nil, nil)
	result := d.Send(context.Background(), domain.MessageDesc{
		Type:      domain.MessageTypeArtifactRequest,
		Recipient: "http://127.0.0.1:1/api/ids/data",
	}, []byte("{}"))
	if result.Sent {
		t.Fatal("expected a not-sent result")
	}
	if result.Failure != domain.DispatchFailureTransmission {
		t.Fatalf("failure = %q, want transmission", result.Failure)
	}
}

func TestSend_RejectedBySend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(NewHeaderBuilder("https://provider.example/connector"), srv.Client(), nil)
	result := d.Send(context.Background(), domain.MessageDesc{
		Type:      domain.MessageTypeArtifactRequest,
		Recipient: srv.URL,
	}, []byte("{}"))
	if result.Sent {
		t.Fatal("expected a not-sent result")
	}
	if result.Failure != domain.DispatchFailureRejectedBySend {
		t.Fatalf("failure = %q, want rejected_by_send", result.Failure)
	}
	if result.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", result.StatusCode)
	}
	if !errors.Is(result.Err, domain.ErrMessageNotSent) {
		t.Fatalf("err = %v, want ErrMessageNotSent", result.Err)
	}
}

func TestSend_FramesHeaderAndPayload(t *testing.T) {
	var gotHeader domain.Message
	var gotPayload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue(PartHeader)), &gotHeader); err != nil {
			t.Errorf("unmarshal header: %v", err)
		}
		gotPayload = r.FormValue(PartPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(NewHeaderBuilder("https://provider.example/connector"), srv.Client(), nil)
	result := d.Send(context.Background(), domain.MessageDesc{
		Type:          domain.MessageTypeContractAgreement,
		Recipient:     srv.URL,
		CorrelationID: "msg-1",
	}, []byte(`{"id":"agreement-1"}`))
	if !result.Sent {
		t.Fatalf("send failed: %+v", result)
	}
	if gotHeader.Type != domain.MessageTypeContractAgreement {
		t.Fatalf("header type = %q", gotHeader.Type)
	}
	if gotHeader.CorrelationID != "msg-1" {
		t.Fatalf("correlation = %q, want msg-1", gotHeader.CorrelationID)
	}
	if gotHeader.ID == "" || gotHeader.ModelVersion != domain.ModelVersion {
		t.Fatalf("header = %+v", gotHeader)
	}
	if gotPayload != `{"id":"agreement-1"}` {
		t.Fatalf("payload = %q", gotPayload)
	}
}
