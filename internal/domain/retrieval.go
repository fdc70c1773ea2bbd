package domain

// CommunicationProtocol selects the transport for a data pull.
type CommunicationProtocol string

const (
	ProtocolMultipart CommunicationProtocol = "multipart"
	ProtocolIDSCP2    CommunicationProtocol = "idscp2"
)

// QueryInput limits the scope of the data pulled from the remote connector.
// A remote peer may silently ignore it.
type QueryInput struct {
	Headers       map[string]string `json:"headers,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	PathVariables map[string]string `json:"pathVariables,omitempty"`
}

// RetrievalInformation bundles the transfer-authorization context for a
// subsequent data pull.
//
// ForceDownload semantics:
//
//	nil   - let the connector decide
//	true  - always download
//	false - do not download under any condition
type RetrievalInformation struct {
	TransferContract string
	ForceDownload    *bool
	Protocol         CommunicationProtocol
	QueryInput       *QueryInput
}
