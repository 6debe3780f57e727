package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nativesins/shop-api/internal/store"
)

func TestRespondStoreError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrDuplicateIdentity, http.StatusConflict},
		{store.ErrInsufficientStock, http.StatusConflict},
		{store.ErrInvalidSize, http.StatusBadRequest},
		{store.ErrInvalidQuantity, http.StatusBadRequest},
		{store.ErrInvalidShipping, http.StatusBadRequest},
		{store.ErrEmptyOrder, http.StatusBadRequest},
		{store.ErrPaymentFailed, http.StatusPaymentRequired},
		// Wrapped errors still map through errors.Is.
		{fmt.Errorf("%w: card declined", store.ErrPaymentFailed), http.StatusPaymentRequired},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		respondStoreError(c, tc.err)
		assert.Equal(t, tc.want, recorder.Code, tc.err.Error())
	}
}

func TestInternalErrorLeaksNothing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	respondStoreError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.5")
}
