package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymtracker/internal/middleware"
	"github.com/2beens/gymtracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChecker := NewMocktokenChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockChecker)

	testCases := []struct {
		name               string
		method             string
		token              string
		tokenValid         bool
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "Preflight",
			method:             http.MethodOptions,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MissingToken",
			method:             http.MethodDelete,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "InvalidToken",
			method:             http.MethodDelete,
			token:              "nope",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			method:             http.MethodPost,
			token:              "s3cret",
			tokenValid:         true,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/workouts/1", nil)
			if tc.token != "" {
				req.Header.Set(middleware.TokenHeader, tc.token)
				mockChecker.EXPECT().Valid(tc.token).Return(tc.tokenValid)
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			rr := httptest.NewRecorder()
			authMiddleware.AuthCheck()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, called)
		})
	}
}

func TestHashTokenChecker(t *testing.T) {
	hash, err := pkg.HashSecret("s3cret", 4)
	require.NoError(t, err)

	checker := middleware.NewHashTokenChecker(hash)
	assert.True(t, checker.Valid("s3cret"))
	assert.False(t, checker.Valid("S3cret"))
	assert.False(t, checker.Valid(""))

	empty := middleware.NewHashTokenChecker("")
	assert.False(t, empty.Valid("s3cret"))
	assert.False(t, empty.Valid(""))
}
