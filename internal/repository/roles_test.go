package repository

import (
	"context"
	"errors"
	"testing"

	"guildapply/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, kind := range []models.RoleKind{models.RoleAdmin, models.RoleModerator} {
		t.Run(string(kind), func(t *testing.T) {
			repo := NewRoleRepository(db, kind)
			assert.Equal(t, kind, repo.Kind())

			require.NoError(t, repo.Add(ctx, &models.RoleAssignment{
				ExternalID:         "42",
				DisplayName:        "answer",
				AddedByExternalID:  "1",
				AddedByDisplayName: "root",
			}))

			err := repo.Add(ctx, &models.RoleAssignment{ExternalID: "42", DisplayName: "again"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrAlreadyExists))
			assert.Contains(t, err.Error(), "already "+kind.Noun())

			items, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "answer", items[0].DisplayName)
			assert.Equal(t, "root", items[0].AddedByDisplayName)
			assert.False(t, items[0].CreatedAt.IsZero())

			exists, err := repo.Exists(ctx, "42")
			require.NoError(t, err)
			assert.True(t, exists)

			removed, err := repo.Remove(ctx, "42")
			require.NoError(t, err)
			assert.Equal(t, "42", removed.ExternalID)

			exists, err = repo.Exists(ctx, "42")
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = repo.Remove(ctx, "42")
			assert.True(t, errors.Is(err, models.ErrNotFound))
			assert.Equal(t, kind.Label()+" not found.", err.Error())
		})
	}
}

func TestRoleRepository_SetsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	admins := NewRoleRepository(db, models.RoleAdmin)
	mods := NewRoleRepository(db, models.RoleModerator)

	require.NoError(t, admins.Add(ctx, &models.RoleAssignment{ExternalID: "7", DisplayName: "seven"}))

	isMod, err := mods.Exists(ctx, "7")
	require.NoError(t, err)
	assert.False(t, isMod)

	require.NoError(t, mods.Add(ctx, &models.RoleAssignment{ExternalID: "7", DisplayName: "seven"}))
	modList, err := mods.List(ctx)
	require.NoError(t, err)
	assert.Len(t, modList, 1)
}

func TestBlacklistRepository_Lifecycle(t *testing.T) {
	repo := NewBlacklistRepository(setupTestDB(t))
	ctx := context.Background()

	entry, err := repo.Get(ctx, "U2")
	require.NoError(t, err)
	assert.Nil(t, entry)

	reason := "spam"
	require.NoError(t, repo.Add(ctx, &models.BlacklistEntry{
		ExternalID:               "U2",
		DisplayName:              "spammer",
		Reason:                   &reason,
		BlacklistedByExternalID:  "A1",
		BlacklistedByDisplayName: "admin",
	}))

	err = repo.Add(ctx, &models.BlacklistEntry{ExternalID: "U2", DisplayName: "spammer"})
	assert.True(t, errors.Is(err, models.ErrAlreadyExists))

	entry, err = repo.Get(ctx, "U2")
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.NotNil(t, entry.Reason)
	assert.Equal(t, "spam", *entry.Reason)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Remove(ctx, "U2")
	require.NoError(t, err)
	_, err = repo.Remove(ctx, "U2")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
