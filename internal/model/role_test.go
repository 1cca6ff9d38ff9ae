package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("SUPERUSER")
	assert.False(t, ok)

	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestEveryRoleHasHomePath(t *testing.T) {
	for _, r := range Roles {
		assert.NotEqual(t, "/", r.HomePath(), r)
	}
	assert.Equal(t, "/", Role("GUEST").HomePath())
}

func TestStatusCanSignIn(t *testing.T) {
	assert.True(t, StatusActive.CanSignIn())
	assert.True(t, StatusPending.CanSignIn())
	assert.False(t, StatusSuspended.CanSignIn())
	assert.False(t, StatusInactive.CanSignIn())
	assert.False(t, Status("UNKNOWN").CanSignIn())
}

func TestOtpRecordExpired(t *testing.T) {
	now := time.Now()
	rec := OtpRecord{ExpiresAt: now}

	assert.False(t, rec.Expired(now))
	assert.True(t, rec.Expired(now.Add(time.Second)))
	assert.False(t, OtpAction("").Valid())
	assert.True(t, OtpActionSignup.Valid())
}
