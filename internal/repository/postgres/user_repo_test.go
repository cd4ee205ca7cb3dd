package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository/postgres"
	"github.com/dom/tienda-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr bool
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "joe",
				Name:         "Joe",
				Email:        "joe@example.com",
				PasswordHash: "hashedpassword",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "joe2",
				Name:         "Joe Two",
				Email:        "joe@example.com", // Same as above
				PasswordHash: "hashedpassword2",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: true,
		},
		{
			name: "duplicate username",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "joe", // Same as above
				Name:         "Another Joe",
				Email:        "another@example.com",
				PasswordHash: "hashedpassword3",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("byemail@example.com").Build(t, testDB.DB)

	got, err := repo.GetByEmail(ctx, "byemail@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("exists_user").
		WithEmail("exists@example.com").
		Build(t, testDB.DB)

	taken, err := repo.ExistsByEmail(ctx, "exists@example.com", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByUsername(ctx, "exists_user", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(ctx, "free@example.com", nil)
	require.NoError(t, err)
	assert.False(t, taken)

	// A user's own row is skipped when excluded, so self-updates pass.
	taken, err = repo.ExistsByEmail(ctx, "exists@example.com", &user.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), domain.ErrNotFound)
}

func TestUserRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewUserBuilder().Build(t, testDB.DB)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
