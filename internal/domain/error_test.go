package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := &Error{Kind: KindHTTPStatus, StatusCode: 503}
	wrapped := fmt.Errorf("fetch: %w", base)

	assert.Equal(t, KindHTTPStatus, KindOf(base))
	assert.Equal(t, KindHTTPStatus, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindTokenMissing, Field: "TELEGRAM_TOKEN"}, "a required environment variable is missing: TELEGRAM_TOKEN"},
		{&Error{Kind: KindNetwork, Err: cause}, "server request error: error: dial tcp: connection refused"},
		{&Error{Kind: KindHTTPStatus, StatusCode: 500}, "server request error: status code: 500"},
		{&Error{Kind: KindShapeMismatch, Field: "homeworks", Expected: "list"}, `error checking data type of "homeworks". Required type: list`},
		{&Error{Kind: KindServerReported, Code: CodeUnknownError, Message: "Wrong from_date format"}, "unexpected from_date: Wrong from_date format"},
		{&Error{Kind: KindServerReported, Code: CodeNotAuthenticated, Message: "Учетные данные не были предоставлены."}, "access denied: Учетные данные не были предоставлены."},
		{&Error{Kind: KindMissingField, Field: "homework_name"}, `missing key "homework_name" in homework`},
		{&Error{Kind: KindUnknownStatus, Value: "unknown_status"}, `unknown homework status "unknown_status"`},
	}
	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &Error{Kind: KindDelivery, Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestOnlyTokenMissingIsFatal(t *testing.T) {
	for k := range kindNames {
		assert.Equal(t, k == KindTokenMissing, k.Fatal(), k.String())
	}
}
