//go:build devadmin

package pages

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevLogin_SignsInTestAdmin(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/admin/dev-login", nil, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	w = e.do(t, http.MethodGet, "/admin", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	user, err := e.repos.UserRepository.Get(context.Background(), devAdminUID)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}
