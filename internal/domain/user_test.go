package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

func TestUser_AuthorityNames(t *testing.T) {
	notLoaded := domain.User{Username: "bob"}
	require.Nil(t, notLoaded.AuthorityNames())

	loadedEmpty := domain.User{Username: "bob", Authorities: []domain.Authority{}}
	require.NotNil(t, loadedEmpty.AuthorityNames())
	require.Empty(t, loadedEmpty.AuthorityNames())

	bob := domain.User{
		Username:    "bob",
		Authorities: []domain.Authority{{Name: "ADMIN"}, {Name: "USER"}},
	}
	require.Equal(t, []string{"ADMIN", "USER"}, bob.AuthorityNames())
}

func TestCloneAuthorities(t *testing.T) {
	require.Nil(t, domain.CloneAuthorities(nil))

	src := []domain.Authority{{Name: "USER"}}
	dst := domain.CloneAuthorities(src)
	dst[0].Name = "ADMIN"
	require.Equal(t, "USER", src[0].Name)

	empty := domain.CloneAuthorities([]domain.Authority{})
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestNormalizeAuthorities(t *testing.T) {
	require.Nil(t, domain.NormalizeAuthorities(nil))

	src := []domain.Authority{{Name: "USER"}, {Name: " ADMIN "}, {Name: "ADMIN"}, {Name: "  "}}
	got := domain.NormalizeAuthorities(src)
	require.Equal(t, []domain.Authority{{Name: "ADMIN"}, {Name: "USER"}}, got)
	require.Equal(t, "USER", src[0].Name)

	empty := domain.NormalizeAuthorities([]domain.Authority{{Name: ""}})
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
