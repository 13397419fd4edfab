package param

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type query struct {
	UserID string `json:"user_id" valid:"required"`
	Limit  int    `json:"limit"`
}

func TestBindingQuery(t *testing.T) {
	var q query
	r := httptest.NewRequest(http.MethodGet, "/transactions?user_id=alice&limit=20&other=1", nil)
	assert.Nil(t, Binding(r, &q))
	assert.Equal(t, "alice", q.UserID)
	assert.Equal(t, 20, q.Limit)

	r = httptest.NewRequest(http.MethodGet, "/transactions?limit=abc", nil)
	assert.NotNil(t, Binding(r, &query{}))
}

func TestBindingBody(t *testing.T) {
	var q query
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user_id":"bob","limit":5}`))
	assert.Nil(t, Binding(r, &q))
	assert.Equal(t, "bob", q.UserID)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"limit":5}`))
	assert.NotNil(t, Binding(r, &query{}))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.NotNil(t, Binding(r, &query{}))
}
