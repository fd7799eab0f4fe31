// Package storagetest содержит общие проверки для всех реализаций хранилища.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// UserAuthoritiesNormalized проверяет, что репозиторий хранит роли без
// пустых имён и повторов и отдаёт их отсортированными по имени.
// repo должен быть пустым.
func UserAuthoritiesNormalized(t *testing.T, repo domain.UserRepository) {
	t.Helper()
	ctx := context.Background()

	bob := domain.User{
		Username:     "bob",
		PasswordHash: "hash",
		Enabled:      true,
		Authorities: []domain.Authority{
			{Name: "USER"}, {Name: "ADMIN"}, {Name: "ADMIN"}, {Name: " "}, {Name: " USER "},
		},
	}
	require.NoError(t, repo.Save(ctx, &bob))

	got, found, err := repo.GetUserWithAuthoritiesByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"ADMIN", "USER"}, got.AuthorityNames())

	bob.Authorities = []domain.Authority{{Name: "COURIER"}, {Name: ""}, {Name: "COURIER"}}
	require.NoError(t, repo.Save(ctx, &bob))

	got, found, err = repo.GetUserWithAuthoritiesByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"COURIER"}, got.AuthorityNames())
}
