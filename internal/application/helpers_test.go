package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

func mustCreateUser(t *testing.T, repo *fakeUserRepo, name, email string) *userDomain.User {
	t.Helper()
	u, err := userDomain.NewUser(name, email)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), u)
	require.NoError(t, err)
	return saved
}

func mustCreateItem(t *testing.T, repo *fakeItemRepo, ownerID int64, name, description string, available bool) *itemDomain.Item {
	t.Helper()
	i, err := itemDomain.NewItem(ownerID, name, description, available, nil)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), i)
	require.NoError(t, err)
	return saved
}
