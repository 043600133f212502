//go:build !devadmin

package pages

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevLogin_AbsentFromReleaseBuilds(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/admin/dev-login", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(w))
}
