package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository/postgres"
	"github.com/mdr/duck-rewards-website/internal/testutil"
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
				Email:        "create@example.com",
				PasswordHash: "hashedpassword",
				UserType:     domain.UserTypeCustomer,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Email:        "create@example.com", // Same as above
				PasswordHash: "hashedpassword2",
				UserType:     domain.UserTypeCustomer,
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

	user, _ := testutil.NewUserBuilder().
		WithEmail("getbyid@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		id      uuid.UUID
		want    *domain.User
		wantErr bool
	}{
		{
			name:    "existing user",
			id:      user.ID,
			want:    user,
			wantErr: false,
		},
		{
			name:    "non-existent user",
			id:      uuid.New(),
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Email, got.Email)
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("getbyemail@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		email   string
		want    *domain.User
		wantErr bool
	}{
		{
			name:    "existing user",
			email:   "getbyemail@example.com",
			want:    user,
			wantErr: false,
		},
		{
			name:    "non-existent user",
			email:   "nobody@example.com",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByEmail(ctx, tt.email)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Email, got.Email)
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("update@example.com").
		Build(t, testDB.DB)

	user.FirstName = "Updated"
	user.UserType = domain.UserTypeAdmin
	err := repo.Update(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.FirstName)
	assert.Equal(t, domain.UserTypeAdmin, got.UserType)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewUserBuilder().WithEmail("list1@example.com").Build(t, testDB.DB)
	testutil.NewUserBuilder().WithEmail("list2@example.com").Build(t, testDB.DB)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
