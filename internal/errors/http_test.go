package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		nil:                                 http.StatusOK,
		ValidationError("x"):                http.StatusBadRequest,
		InvalidInput("x"):                   http.StatusBadRequest,
		NotFound("session"):                 http.StatusNotFound,
		UnsupportedPayload("x"):             http.StatusUnprocessableEntity,
		Wrap(InvalidShape("x"), "build"):    http.StatusUnprocessableEntity,
		RowCountMismatch(20, 19):            http.StatusBadGateway,
		ExternalServiceError("openai", nil): http.StatusBadGateway,
		fmt.Errorf("plain"):                 http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), "%v", err)
	}
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(fmt.Errorf("x: %w", context.DeadlineExceeded)))
}

func TestToBodyHidesInternalCauses(t *testing.T) {
	b := ToBody(DatabaseError("failed to save snapshot", fmt.Errorf("password=secret")))
	assert.Equal(t, CodeDatabaseError, b.Code)
	assert.Equal(t, "internal error", b.Message)

	b = ToBody(RowCountMismatch(20, 19))
	assert.Equal(t, 20, b.Expected)
	assert.Equal(t, 19, b.Actual)

	assert.Equal(t, CodeInternalError, ToBody(fmt.Errorf("boom")).Code)
}
