package alphavantage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/fingateway/internal/provider"
)

func TestClassifyRejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"note", `{"Note":"quota exceeded"}`, "quota exceeded"},
		{"error message", `{"Error Message":"Invalid API call."}`, "Invalid API call."},
		{"note wins", `{"Note":"slow down","Error Message":"bad symbol"}`, "slow down"},
		{"empty note falls through", `{"Note":"","Error Message":"bad symbol"}`, "bad symbol"},
		{"numeric note", `{"Note":5}`, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify([]byte(tt.body))
			var rejected *provider.ErrUpstreamRejected
			require.True(t, errors.As(err, &rejected), "got %v", err)
			assert.Equal(t, tt.message, rejected.Message)
			assert.Equal(t, Name, rejected.Provider)
		})
	}
}

func TestClassifyAccepts(t *testing.T) {
	for _, body := range []string{
		`{"annualReports":[]}`,
		`{"Note":"","Error Message":null}`,
		`{"Note":false,"Error Message":0}`,
		`{}`,
		`[]`,
	} {
		assert.NoError(t, Classify([]byte(body)), body)
	}
}

func TestClassifyMalformed(t *testing.T) {
	for _, body := range []string{
		`<html>502 Bad Gateway</html>`,
		``,
		`null`,
		`{"annualReports":[`,
	} {
		err := Classify([]byte(body))
		var malformed *provider.ErrMalformedResponse
		assert.True(t, errors.As(err, &malformed), "body %q: got %v", body, err)
	}
}
