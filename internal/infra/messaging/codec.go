package messaging

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// Codec reads inbound payloads and parses contract requests. It implements
// usecase.PayloadCodec.
type Codec struct{}

// PayloadString decodes the raw payload part as text.
func (Codec) PayloadString(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", domain.ErrMissingPayload
	}
	if !utf8.Valid(payload) {
		return "", domain.ErrMalformedPayload
	}
	return string(payload), nil
}

// ContractRequest deserializes a payload string into the contract request
// domain object.
func (Codec) ContractRequest(payload string) (domain.ContractRequest, error) {
	var request domain.ContractRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return domain.ContractRequest{}, fmt.Errorf("parse contract request: %w", err)
	}
	return request, nil
}
