package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCommentHandlerCreateUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCommentHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/games/g1/comments", strings.NewReader(`{"body":"hi"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRatingHandlerUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRatingHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/games/g1/rating", strings.NewReader(`{"stars":`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Rate(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
