package errors

import (
	"encoding/json"
)

// ErrorResponse is the flat JSON form of an error. The wrapped chain is left out so
// local paths and credentials embedded in causes are not leaked.
type ErrorResponse struct {
	Code           string         `json:"code"`
	Message        string         `json:"message"`
	Classification string         `json:"classification"`
	Context        map[string]any `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse. Returns nil if err is nil.
//
// Plain errors are reported with CodeUnknown and their full message.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	message := err.Error()
	var ctx map[string]any

	var platformErr PlatformError
	if As(err, &platformErr) {
		message = platformErr.Message()
		ctx = platformErr.Context()
	}

	return &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        message,
		Classification: string(GetClassification(err)),
		Context:        ctx,
	}
}

// MarshalJSON implements json.Marshaler so a PlatformError can be encoded directly.
func (e *platformError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	})
	if err != nil {
		return nil, &platformError{
			code:           CodeInternal,
			classification: ClassificationPermanent,
			message:        "failed to marshal error response",
			cause:          err,
		}
	}
	return data, nil
}
