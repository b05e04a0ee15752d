package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mythicalbadger/swe-hw1-backend/internal/auth"
	autherrors "github.com/mythicalbadger/swe-hw1-backend/internal/auth/errors"
	"github.com/mythicalbadger/swe-hw1-backend/internal/user"
	usererrors "github.com/mythicalbadger/swe-hw1-backend/internal/user/errors"
)

type fakeUserRepository struct {
	createFn         func(ctx context.Context, u *user.User) error
	findByIDFn       func(ctx context.Context, id string) (*user.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*user.User, error)
	findAllFn        func(ctx context.Context) ([]user.User, error)
	updateFn         func(ctx context.Context, u *user.User) error
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if f.findByUsernameFn != nil {
		return f.findByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with full allowance", func(t *testing.T) {
		repo := &fakeUserRepository{}

		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}

		svc := auth.NewService(repo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			FullName: "Somchai Jaidee",
			Username: "somchai",
			Password: "secret123",
		})
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "somchai", created.Username)
		assert.Equal(t, user.DefaultLeaveAllowance, created.RemainingLeaveDays)
		assert.False(t, created.IsAdmin)

		// Password is stored hashed, never verbatim.
		assert.NotEqual(t, "secret123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))

		assert.Equal(t, "somchai", resp.Username)
		assert.Equal(t, user.DefaultLeaveAllowance, resp.RemainingLeaveDays)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return &user.User{ID: uuid.New(), Username: username}, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			FullName: "Somchai Jaidee",
			Username: "somchai",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, usererrors.ErrUsernameAlreadyTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	stored := &user.User{
		ID:                 userID,
		Username:           "somchai",
		FullName:           "Somchai Jaidee",
		Password:           hashPassword(t, "secret123"),
		RemainingLeaveDays: 42,
	}

	t.Run("success issues tokens", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				assert.Equal(t, "somchai", username)
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		access, refresh, resp, err := svc.Login(ctx, "somchai", "secret123")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, 42, resp.RemainingLeaveDays)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		_, _, _, err := svc.Login(ctx, "somchai", "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown username rejected", func(t *testing.T) {
		repo := &fakeUserRepository{}

		svc := auth.NewService(repo)
		_, _, _, err := svc.Login(ctx, "nobody", "secret123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	stored := &user.User{
		ID:       userID,
		Username: "somchai",
		Password: hashPassword(t, "secret123"),
	}

	repo := &fakeUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return stored, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			assert.Equal(t, userID.String(), id)
			return stored, nil
		},
	}

	svc := auth.NewService(repo)

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		_, refresh, _, err := svc.Login(ctx, "somchai", "secret123")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, userID.String(), resp.ID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			if id == userID.String() {
				return &user.User{ID: userID, Username: "somchai", RemainingLeaveDays: 40}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := auth.NewService(repo)

	t.Run("returns profile", func(t *testing.T) {
		resp, err := svc.GetMe(ctx, userID.String())
		assert.NoError(t, err)
		assert.Equal(t, "somchai", resp.Username)
		assert.Equal(t, 40, resp.RemainingLeaveDays)
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		_, err := svc.GetMe(ctx, "nope")
		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("unknown id not found", func(t *testing.T) {
		_, err := svc.GetMe(ctx, uuid.NewString())
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}
