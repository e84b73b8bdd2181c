package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"user-service/internal/domain"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Validation(map[string]string{"email": "x"}), http.StatusBadRequest},
		{domain.AlreadyExists("alice"), http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", domain.NotFound("bob")), http.StatusNotFound},
		{domain.Serialization(errors.New("bad")), http.StatusInternalServerError},
		{errors.New("db down"), http.StatusInternalServerError},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func failWith(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/users/x", nil)
	Fail(c, err)
	return w
}

func TestFailBodies(t *testing.T) {
	w := failWith(domain.NotFound("test_nick4"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"description":"user with nick name test_nick4 not found!"}`, w.Body.String())

	w = failWith(domain.Validation(map[string]string{"country": "country should have two characters"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"description":{"country":"country should have two characters"}}`, w.Body.String())

	w = failWith(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"description":"connection reset"}`, w.Body.String())
}
