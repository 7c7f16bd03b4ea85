package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yrcd27/mirror-auth-service/internal/auth/domain"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/dto"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/password"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/service"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/throttle"
	autherror "github.com/Yrcd27/mirror-auth-service/internal/errors"
	"github.com/Yrcd27/mirror-auth-service/internal/mocks"
)

const testPassword = "Abcdef1!"

type serviceFixture struct {
	repo     *mocks.MockUserRepository
	tokens   *mocks.MockTokenGenerator
	throttle *throttle.LoginThrottle
	svc      *service.UserService
}

func newFixture(t *testing.T, maxAttempts int) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockTokenGenerator(ctrl)
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	lt := throttle.New(maxAttempts, 15*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		repo:     repo,
		tokens:   tokens,
		throttle: lt,
		svc:      service.NewUserService(repo, tokens, hasher, lt, logger),
	}
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           "user-123",
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: string(hash),
	}
}

func expectIssue(f *serviceFixture, refreshToken string) {
	f.tokens.EXPECT().GenerateAccessToken("user-123", "alice@x.com").Return("access-token", nil)
	f.tokens.EXPECT().GenerateRefreshToken().Return(refreshToken, nil)
	f.tokens.EXPECT().RefreshTokenExpiry().Return(7 * 24 * time.Hour)
	f.repo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).Return(nil)
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t, 5)

	input := dto.RegisterInput{Name: "Alice", Email: "alice@x.com", Password: testPassword}

	f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, user *domain.User) error {
			assert.Equal(t, "Alice", user.Name)
			assert.Equal(t, "alice@x.com", user.Email)
			assert.NotEmpty(t, user.ID)
			assert.NotEqual(t, testPassword, user.PasswordHash)
			return nil
		})

	user, err := f.svc.Register(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotZero(t, user.CreatedAt)
}

func TestRegister_EmailAlreadyInUse(t *testing.T) {
	f := newFixture(t, 5)

	input := dto.RegisterInput{Name: "Alice", Email: "alice@x.com", Password: testPassword}
	f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: "existing"}, nil)

	user, err := f.svc.Register(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	assert.Nil(t, user)
}

func TestRegister_WeakPasswordRejectedBeforeStoreAccess(t *testing.T) {
	f := newFixture(t, 5)

	// No repo expectations: the policy check must run first.
	input := dto.RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "weakpass"}

	user, err := f.svc.Register(context.Background(), input)

	assert.Error(t, err)
	var policyErr *password.PolicyError
	assert.ErrorAs(t, err, &policyErr)
	assert.Nil(t, user)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	input := dto.LoginInput{Email: user.Email, Password: testPassword, IPAddress: "10.0.0.1", UserAgent: "go-test"}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, "10.0.0.1", true).Return(nil)
	expectIssue(f, "refresh-token-1")

	gotUser, pair, err := f.svc.Login(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token-1", pair.RefreshToken)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), "nobody@x.com").Return(nil, nil)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), "nobody@x.com", "10.0.0.1", false).Return(nil)

	_, _, errUnknown := f.svc.Login(context.Background(), dto.LoginInput{
		Email: "nobody@x.com", Password: testPassword, IPAddress: "10.0.0.1",
	})

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, "10.0.0.1", false).Return(nil)

	_, _, errWrong := f.svc.Login(context.Background(), dto.LoginInput{
		Email: user.Email, Password: "Wrong-pass1!", IPAddress: "10.0.0.1",
	})

	// Both failure modes surface the same error value.
	assert.ErrorIs(t, errUnknown, autherror.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, autherror.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_LockedOutAfterMaxFailures(t *testing.T) {
	f := newFixture(t, 2)
	user := testUser(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil).Times(2)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, "10.0.0.1", false).Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		_, _, err := f.svc.Login(context.Background(), dto.LoginInput{
			Email: user.Email, Password: "Wrong-pass1!", IPAddress: "10.0.0.1",
		})
		assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	}

	// Locked now: even correct credentials are rejected without touching
	// the store.
	_, _, err := f.svc.Login(context.Background(), dto.LoginInput{
		Email: user.Email, Password: testPassword, IPAddress: "10.0.0.1",
	})
	assert.ErrorIs(t, err, autherror.ErrTooManyLoginAttempts)
}

func TestLogin_SuccessClearsThrottle(t *testing.T) {
	f := newFixture(t, 2)
	user := testUser(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil).Times(2)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, "10.0.0.1", false).Return(nil)
	f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, "10.0.0.1", true).Return(nil)
	expectIssue(f, "refresh-token-1")

	_, _, err := f.svc.Login(context.Background(), dto.LoginInput{
		Email: user.Email, Password: "Wrong-pass1!", IPAddress: "10.0.0.1",
	})
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), dto.LoginInput{
		Email: user.Email, Password: testPassword, IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	// The earlier failure was wiped by the success.
	assert.True(t, f.throttle.Allow("10.0.0.1"))
}

func TestRefresh_Success(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	record := &domain.RefreshToken{ID: "rt-1", UserID: user.ID, Token: "old-token"}

	f.repo.EXPECT().ConsumeRefreshToken(gomock.Any(), "old-token").Return(record, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	expectIssue(f, "new-token")

	pair, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "old-token"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "new-token", pair.RefreshToken)
}

func TestRefresh_SingleUse(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	record := &domain.RefreshToken{ID: "rt-1", UserID: user.ID, Token: "old-token"}

	gomock.InOrder(
		f.repo.EXPECT().ConsumeRefreshToken(gomock.Any(), "old-token").Return(record, nil),
		f.repo.EXPECT().ConsumeRefreshToken(gomock.Any(), "old-token").Return(nil, nil),
	)
	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	expectIssue(f, "new-token")

	_, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "old-token"})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "old-token"})
	assert.ErrorIs(t, err, autherror.ErrInvalidRefreshToken)
}

func TestRefresh_MissingToken(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.svc.Refresh(context.Background(), dto.RefreshInput{})
	assert.ErrorIs(t, err, autherror.ErrRefreshTokenRequired)
}

func TestRefresh_OwnerDeleted(t *testing.T) {
	f := newFixture(t, 5)

	record := &domain.RefreshToken{ID: "rt-1", UserID: "gone", Token: "old-token"}

	f.repo.EXPECT().ConsumeRefreshToken(gomock.Any(), "old-token").Return(record, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, nil)

	_, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "old-token"})
	assert.ErrorIs(t, err, autherror.ErrIdentityNotFound)
}

func TestLogout_SwallowsRevocationFailure(t *testing.T) {
	f := newFixture(t, 5)

	f.repo.EXPECT().RevokeRefreshToken(gomock.Any(), "some-token").Return(errors.New("store down"))

	// Must not panic or surface the error.
	f.svc.Logout(context.Background(), "some-token")
}

func TestLogout_NoTokenIsNoop(t *testing.T) {
	f := newFixture(t, 5)
	f.svc.Logout(context.Background(), "")
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	gomock.InOrder(
		f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil),
		f.repo.EXPECT().UpdatePasswordHash(gomock.Any(), user.ID, gomock.Any()).Return(nil),
		f.repo.EXPECT().RevokeAllByUserID(gomock.Any(), user.ID).Return(nil),
	)

	err := f.svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "NewSecret9$",
	})
	require.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	err := f.svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: "Wrong-pass1!",
		NewPassword:     "NewSecret9$",
	})
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestChangePassword_WeakNewPassword(t *testing.T) {
	f := newFixture(t, 5)
	user := testUser(t)

	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	err := f.svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "weak",
	})

	var policyErr *password.PolicyError
	assert.ErrorAs(t, err, &policyErr)
}

func TestDeleteAccount_CascadeRevokesFirst(t *testing.T) {
	f := newFixture(t, 5)

	gomock.InOrder(
		f.repo.EXPECT().RevokeAllByUserID(gomock.Any(), "user-123").Return(nil),
		f.repo.EXPECT().Delete(gomock.Any(), "user-123").Return(nil),
	)

	err := f.svc.DeleteAccount(context.Background(), "user-123")
	require.NoError(t, err)
}

func TestPurgeExpired(t *testing.T) {
	f := newFixture(t, 5)

	f.repo.EXPECT().PurgeRefreshTokensBefore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cutoff time.Time) (int64, error) {
			assert.WithinDuration(t, time.Now().Add(-30*24*time.Hour), cutoff, 5*time.Second)
			return 3, nil
		})

	f.svc.PurgeExpired(context.Background(), 30*24*time.Hour)
}
