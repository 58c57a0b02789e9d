package alphavantage

import (
	"github.com/tidwall/gjson"

	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/utils"
)

// In-band markers. Note carries rate-limit text, Error Message carries
// invalid-symbol text.
const (
	fieldNote         = "Note"
	fieldErrorMessage = "Error Message"
)

// Classify decides whether raw is a usable statement document.
//
// It returns *provider.ErrMalformedResponse for bodies that are not JSON (or
// are JSON null) and *provider.ErrUpstreamRejected when Note or Error Message
// is set; Note wins when both are.
func Classify(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return &provider.ErrMalformedResponse{Provider: Name, Detail: "invalid JSON"}
	}
	doc := gjson.ParseBytes(raw)
	if doc.Type == gjson.Null {
		return &provider.ErrMalformedResponse{Provider: Name, Detail: "null document"}
	}

	for _, field := range []string{fieldNote, fieldErrorMessage} {
		if v := doc.Get(field); utils.Truthy(v) {
			return &provider.ErrUpstreamRejected{Provider: Name, Message: v.String()}
		}
	}
	return nil
}
