package domain

import "errors"

var (
	ErrMessageEmpty            = errors.New("message empty")
	ErrVersionNotSupported     = errors.New("model version not supported")
	ErrMissingPayload          = errors.New("missing payload")
	ErrMalformedPayload        = errors.New("malformed payload")
	ErrMissingRules            = errors.New("missing rules")
	ErrMissingTarget           = errors.New("missing target")
	ErrResourceNotFound        = errors.New("resource not found")
	ErrInvalidResource         = errors.New("invalid resource")
	ErrMissingContractOffers   = errors.New("missing contract offers")
	ErrHeaderBuild             = errors.New("header build failed")
	ErrMessageNotSent          = errors.New("message not sent")
	ErrMissingTransferContract = errors.New("missing transfer contract")
	ErrNotFound                = errors.New("not found")
	ErrUnauthorized            = errors.New("unauthorized")
)
