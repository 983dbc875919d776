package repository

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_IdempotentUpsert(t *testing.T) {
	repo := NewSubscriptionRepository(testDB)
	email := gofakeit.Email()

	require.NoError(t, repo.Subscribe(ctx(), email))
	require.NoError(t, repo.Subscribe(ctx(), email))

	subs, err := repo.ListActive(ctx())
	require.NoError(t, err)
	count := 0
	for _, s := range subs {
		if s.Email == email {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUnsubscribe_ThenResubscribe(t *testing.T) {
	repo := NewSubscriptionRepository(testDB)
	email := gofakeit.Email()

	require.NoError(t, repo.Subscribe(ctx(), email))
	require.NoError(t, repo.Unsubscribe(ctx(), email))

	subs, err := repo.ListActive(ctx())
	require.NoError(t, err)
	for _, s := range subs {
		assert.NotEqual(t, email, s.Email)
	}

	require.NoError(t, repo.Subscribe(ctx(), email))
	subs, err = repo.ListActive(ctx())
	require.NoError(t, err)
	found := false
	for _, s := range subs {
		if s.Email == email {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUnsubscribe_UnknownEmail(t *testing.T) {
	repo := NewSubscriptionRepository(testDB)
	err := repo.Unsubscribe(ctx(), "nobody@example.com")
	require.Error(t, err)
}
