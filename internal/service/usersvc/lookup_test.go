package usersvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/memory"
)

func seededLookup(t *testing.T) *Lookup {
	t.Helper()

	repo := memory.NewUserRepository()
	bob := domain.User{
		Username:     "bob",
		PasswordHash: "$2a$10$hash",
		Enabled:      true,
		Authorities:  []domain.Authority{{Name: "ADMIN"}, {Name: "USER"}},
	}
	require.NoError(t, repo.Save(context.Background(), &bob))

	return NewLookup(repo, memory.NewTransactor(), nil, nil)
}

func TestLookup_WithAuthorities(t *testing.T) {
	lookup := seededLookup(t)

	user, found, err := lookup.GetUserWithAuthoritiesByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "bob", user.Username)
	require.ElementsMatch(t, []string{"ADMIN", "USER"}, user.AuthorityNames())
}

func TestLookup_WithoutAuthorities(t *testing.T) {
	lookup := seededLookup(t)

	user, found, err := lookup.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Nil(t, user.Authorities)
}

func TestLookup_MissingUser(t *testing.T) {
	lookup := seededLookup(t)
	ctx := context.Background()

	_, found, err := lookup.GetUserWithAuthoritiesByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = lookup.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)
}

type brokenRepo struct {
	domain.UserRepository
	err error
}

func (b brokenRepo) GetUserByUsername(context.Context, string) (domain.User, bool, error) {
	return domain.User{Username: "partial"}, true, b.err
}

type countingMetrics struct {
	ops  []string
	errs int
}

func (c *countingMetrics) ObserveOperation(op string, err error, _ time.Duration) {
	c.ops = append(c.ops, op)
	if err != nil {
		c.errs++
	}
}

func TestLookup_StorageErrorPropagates(t *testing.T) {
	storageErr := errors.New("db unavailable")
	m := &countingMetrics{}
	lookup := NewLookup(brokenRepo{err: storageErr}, memory.NewTransactor(), m, nil)

	user, found, err := lookup.GetUserByUsername(context.Background(), "bob")
	require.ErrorIs(t, err, storageErr)
	require.False(t, found)
	require.Empty(t, user.Username)
	require.Equal(t, []string{OpGetUserByUsername}, m.ops)
	require.Equal(t, 1, m.errs)
}
