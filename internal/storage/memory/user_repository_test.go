package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/memory"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/storagetest"
)

func TestUserRepository_LookupVariants(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	bob := domain.User{
		Username:     "bob",
		PasswordHash: "hash",
		Enabled:      true,
		Authorities:  []domain.Authority{{Name: "ADMIN"}, {Name: "USER"}},
	}
	require.NoError(t, repo.Save(ctx, &bob))
	require.NotZero(t, bob.ID)

	withRoles, found, err := repo.GetUserWithAuthoritiesByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.ElementsMatch(t, []string{"ADMIN", "USER"}, withRoles.AuthorityNames())

	plain, found, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, bob.ID, plain.ID)
	require.Nil(t, plain.Authorities)
}

func TestUserRepository_MissingUsername(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	_, found, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = repo.GetUserWithAuthoritiesByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)
}

func TestUserRepository_ExactMatch(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	user := domain.User{Username: "Carol"}
	require.NoError(t, repo.Save(ctx, &user))

	_, found, err := repo.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.False(t, found)
}

func TestUserRepository_UsernameUnique(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	first := domain.User{Username: "dave"}
	require.NoError(t, repo.Save(ctx, &first))

	second := domain.User{Username: "dave"}
	require.ErrorIs(t, repo.Save(ctx, &second), domain.ErrUsernameTaken)

	require.ErrorIs(t, repo.Save(ctx, &domain.User{}), domain.ErrUsernameRequired)
	require.ErrorIs(t, repo.Save(ctx, nil), domain.ErrUserRequired)
}

func TestUserRepository_UpdateKeepsAuthoritiesWhenNil(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	user := domain.User{Username: "erin", Authorities: []domain.Authority{{Name: "USER"}}}
	require.NoError(t, repo.Save(ctx, &user))

	renamed := domain.User{ID: user.ID, Username: "erin2", Enabled: true}
	require.NoError(t, repo.Save(ctx, &renamed))

	_, found, err := repo.GetUserByUsername(ctx, "erin")
	require.NoError(t, err)
	require.False(t, found, "old username must be released")

	got, found, err := repo.GetUserWithAuthoritiesByUsername(ctx, "erin2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"USER"}, got.AuthorityNames())

	replaced := got
	replaced.Authorities = []domain.Authority{}
	require.NoError(t, repo.Save(ctx, &replaced))
	got, _, err = repo.GetUserWithAuthoritiesByUsername(ctx, "erin2")
	require.NoError(t, err)
	require.NotNil(t, got.Authorities)
	require.Empty(t, got.Authorities)
}

func TestUserRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	_, err := repo.FindByID(ctx, 1)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	user := domain.User{Username: "frank", Authorities: []domain.Authority{{Name: "USER"}}}
	require.NoError(t, repo.Save(ctx, &user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "frank", got.Username)
	require.Nil(t, got.Authorities)

	missing := domain.User{ID: 404, Username: "ghost"}
	require.ErrorIs(t, repo.Save(ctx, &missing), domain.ErrUserNotFound)
}

func TestUserRepository_NormalizesAuthorities(t *testing.T) {
	storagetest.UserAuthoritiesNormalized(t, memory.NewUserRepository())
}
