package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository/postgres"
	"github.com/dom/tienda-api/internal/service"
	"github.com/dom/tienda-api/internal/testutil"
	"github.com/dom/tienda-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(overrides map[string]any) *validation.Input {
	values := map[string]any{
		"username":              "joe",
		"name":                  "Joe",
		"email":                 "j@x.com",
		"password":              testutil.ValidPassword,
		"password_confirmation": testutil.ValidPassword,
		"terms":                 true,
	}
	for field, v := range overrides {
		if v == nil {
			delete(values, field)
			continue
		}
		values[field] = v
	}
	return validation.NewInput(values)
}

func loginInput(email, password string) *validation.Input {
	return validation.NewInput(map[string]any{"email": email, "password": password})
}

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		overrides  map[string]any
		setup      func()
		wantFields []string
	}{
		{
			name: "successful registration",
		},
		{
			name:       "duplicate email",
			overrides:  map[string]any{"username": "joe2"},
			setup:      func() { registerOK(t, services, nil) },
			wantFields: []string{"email"},
		},
		{
			name:       "duplicate username",
			overrides:  map[string]any{"email": "other@x.com"},
			setup:      func() { registerOK(t, services, nil) },
			wantFields: []string{"username"},
		},
		{
			name:       "password too short",
			overrides:  map[string]any{"password": "Ab1!", "password_confirmation": "Ab1!"},
			wantFields: []string{"password"},
		},
		{
			name:       "password missing a character class",
			overrides:  map[string]any{"password": "abcd1234!", "password_confirmation": "abcd1234!"},
			wantFields: []string{"password"},
		},
		{
			name:       "password confirmation mismatch",
			overrides:  map[string]any{"password_confirmation": "Different1!"},
			wantFields: []string{"password"},
		},
		{
			name:       "terms not accepted",
			overrides:  map[string]any{"terms": false},
			wantFields: []string{"terms"},
		},
		{
			name:       "missing fields reported together",
			overrides:  map[string]any{"name": nil, "email": nil},
			wantFields: []string{"name", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			var before int64
			testDB.DB.Model(&domain.User{}).Count(&before)

			result, err := services.Auth.Register(ctx, registerInput(tt.overrides))

			if len(tt.wantFields) > 0 {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				for _, field := range tt.wantFields {
					assert.Contains(t, verr.Fields, field)
				}

				// Rejection creates nothing.
				var after int64
				testDB.DB.Model(&domain.User{}).Count(&after)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.NotEqual(t, testutil.ValidPassword, result.User.PasswordHash)
			assert.True(t, result.User.AcceptedTerms)
		})
	}
}

func TestAuthService_RegisterTokenAuthenticatesNewUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, nil)
	ctx := context.Background()

	result, err := services.Auth.Register(ctx, registerInput(nil))
	require.NoError(t, err)

	user, err := services.Token.Validate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = services.Token.Validate(ctx, "not-a-real-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, nil)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "successful login",
			email:    user.Email,
			password: rawPassword,
		},
		{
			name:     "wrong password is unauthorized, not a field error",
			email:    user.Email,
			password: "Wrong123!",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: rawPassword,
			wantErr:  domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := services.Auth.Login(ctx, loginInput(tt.email, tt.password))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var verr *domain.ValidationError
				assert.False(t, errors.As(err, &verr), "credential failures must not be field errors")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.Token)
		})
	}
}

func TestAuthService_LoginKeepsPriorSessions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, nil)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := services.Auth.Login(ctx, loginInput(user.Email, rawPassword))
	require.NoError(t, err)
	second, err := services.Auth.Login(ctx, loginInput(user.Email, rawPassword))
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Both sessions stay live.
	_, err = services.Token.Validate(ctx, first.Token)
	assert.NoError(t, err)
	_, err = services.Token.Validate(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, nil)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, otherPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := services.Auth.Login(ctx, loginInput(user.Email, rawPassword))
	require.NoError(t, err)
	second, err := services.Auth.Login(ctx, loginInput(user.Email, rawPassword))
	require.NoError(t, err)
	otherSession, err := services.Auth.Login(ctx, loginInput(other.Email, otherPassword))
	require.NoError(t, err)

	require.NoError(t, services.Auth.Logout(ctx, user))

	// Every token of the caller dies, the other user's survives.
	_, err = services.Token.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = services.Token.Validate(ctx, second.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = services.Token.Validate(ctx, otherSession.Token)
	assert.NoError(t, err)

	// Logging out twice is harmless.
	assert.NoError(t, services.Auth.Logout(ctx, user))
}

func registerOK(t *testing.T, services *service.Services, overrides map[string]any) {
	t.Helper()
	_, err := services.Auth.Register(context.Background(), registerInput(overrides))
	require.NoError(t, err)
}
