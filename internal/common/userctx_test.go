package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/copyforge/internal/models"
)

func TestUserContext_RoundTrip(t *testing.T) {
	user := &models.User{Username: "johndoe"}
	ctx := WithUser(context.Background(), user)

	got := UserFromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "johndoe", got.Username)
}

func TestUserFromContext_Empty(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))
}
