// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/sec"
)

// # Test Doubles

// fakeIdentityRepo is an in-memory IdentityRepository with switchable failures.
type fakeIdentityRepo struct {
	byID map[string]*Identity

	findErr      error // forced failure for FindByEmail / FindByID
	existsErr    error // forced failure for ExistsByEmail
	createErr    error // forced failure for Create (simulates a lost race)
	lastLoginErr error // forced failure for UpdateLastLogin

	lastLoginCalls int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byID: make(map[string]*Identity)}
}

func (r *fakeIdentityRepo) FindByID(_ context.Context, id string) (*Identity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	identity, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Identity")
	}
	return identity, nil
}

func (r *fakeIdentityRepo) FindByEmail(_ context.Context, email string) (*Identity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, identity := range r.byID {
		if identity.Email == email {
			return identity, nil
		}
	}
	return nil, apperr.NotFound("Identity")
}

func (r *fakeIdentityRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, identity := range r.byID {
		if identity.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *Identity) error {
	if r.createErr != nil {
		return r.createErr
	}
	// Mimic the unique email index.
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return ErrEmailAlreadyExists()
		}
	}
	r.byID[identity.ID] = identity
	return nil
}

func (r *fakeIdentityRepo) UpdateLastLogin(_ context.Context, identityID string, at time.Time) error {
	r.lastLoginCalls++
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	if identity, ok := r.byID[identityID]; ok {
		identity.LastLogin = &at
	}
	return nil
}

// # Fixtures

const testTokenSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) (*Service, *fakeIdentityRepo) {
	t.Helper()

	codec, err := sec.NewTokenService(testTokenSecret, "kaimono.shop", AccessTokenTTL)
	require.NoError(t, err)

	repo := newFakeIdentityRepo()
	return NewService(repo, codec), repo
}

func mustRegister(t *testing.T, service *Service, email string) *AuthResult {
	t.Helper()

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "correct horse battery",
		FullName: "Tai Bui",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	return result
}

// # Registration Flow

/*
TestRegister_IssuesUsableToken verifies that a fresh registration returns a
token that immediately validates against the same service.
*/
func TestRegister_IssuesUsableToken(t *testing.T) {
	service, _ := newTestService(t)

	result := mustRegister(t, service, "shopper@kaimono.shop")
	assert.Equal(t, "shopper@kaimono.shop", result.Email)
	assert.Equal(t, "Tai Bui", result.FullName)

	identity, err := service.ValidateToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "shopper@kaimono.shop", identity.Email)
	assert.Equal(t, "Tai Bui", identity.FullName)
	assert.NotEmpty(t, identity.ID)
}

/*
TestRegister_RecordsFirstLogin verifies that registering counts as the first
sign-in: the persisted identity carries a last-login instant from the start.
*/
func TestRegister_RecordsFirstLogin(t *testing.T) {
	service, repo := newTestService(t)
	registeredAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return registeredAt }

	mustRegister(t, service, "shopper@kaimono.shop")

	require.Len(t, repo.byID, 1)
	for _, identity := range repo.byID {
		require.NotNil(t, identity.LastLogin)
		assert.Equal(t, registeredAt, *identity.LastLogin)
	}
}

/*
TestRegister_DuplicateEmail verifies the conflict kind for an email that is
already registered, including case and whitespace variants of it.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")

	tests := []struct {
		name  string
		email string
	}{
		{"exact_duplicate", "shopper@kaimono.shop"},
		{"case_variant", "Shopper@Kaimono.SHOP"},
		{"padded_variant", "  shopper@kaimono.shop  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), RegisterInput{
				Email:    tt.email,
				Password: "another password",
				FullName: "Somebody Else",
			})
			require.Error(t, err)
			assert.Equal(t, CodeEmailAlreadyExists, apperr.CodeOf(err))
		})
	}
}

/*
TestRegister_LostRace verifies that a registration losing the concurrent-insert
race (existence check passed, unique index rejected the write) still surfaces
as EMAIL_ALREADY_EXISTS rather than a storage error.
*/
func TestRegister_LostRace(t *testing.T) {
	service, repo := newTestService(t)
	repo.createErr = ErrEmailAlreadyExists()

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "racer@kaimono.shop",
		Password: "correct horse battery",
		FullName: "Racer",
	})
	require.Error(t, err)
	assert.Equal(t, CodeEmailAlreadyExists, apperr.CodeOf(err))
}

/*
TestRegister_StorageFailure verifies that infrastructure failures during
registration are reported as PERSISTENCE_ERROR, never swallowed.
*/
func TestRegister_StorageFailure(t *testing.T) {
	service, repo := newTestService(t)
	repo.existsErr = errors.New("connection refused")

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "shopper@kaimono.shop",
		Password: "correct horse battery",
		FullName: "Tai Bui",
	})
	require.Error(t, err)
	assert.Equal(t, CodePersistenceError, apperr.CodeOf(err))
}

// # Authentication Flow

/*
TestAuthenticate_Success verifies the happy path: token issued, last-login
instant recorded.
*/
func TestAuthenticate_Success(t *testing.T) {
	service, repo := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")

	result, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "shopper@kaimono.shop", result.Email)
	assert.Equal(t, 1, repo.lastLoginCalls)
}

/*
TestAuthenticate_NormalizesEmail verifies that casing and whitespace in the
login email never matter once an account exists.
*/
func TestAuthenticate_NormalizesEmail(t *testing.T) {
	service, _ := newTestService(t)
	mustRegister(t, service, "  Shopper@Kaimono.SHOP ")

	result, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "shopper@kaimono.shop", result.Email)
}

/*
TestAuthenticate_IndistinguishableFailures verifies that an unknown email and
a wrong password produce the exact same failure kind, so responses cannot be
used to enumerate accounts.
*/
func TestAuthenticate_IndistinguishableFailures(t *testing.T) {
	service, _ := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")

	_, unknownErr := service.Authenticate(context.Background(), "nobody@kaimono.shop", "correct horse battery")
	_, wrongPassErr := service.Authenticate(context.Background(), "shopper@kaimono.shop", "wrong password")

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.Equal(t, CodeInvalidCredentials, apperr.CodeOf(unknownErr))
	assert.Equal(t, apperr.CodeOf(unknownErr), apperr.CodeOf(wrongPassErr))
}

/*
TestAuthenticate_InactiveAccount verifies that correct credentials on a
deactivated account yield ACCOUNT_INACTIVE, not INVALID_CREDENTIALS.
*/
func TestAuthenticate_InactiveAccount(t *testing.T) {
	service, repo := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")

	for _, identity := range repo.byID {
		identity.IsActive = false
	}

	_, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.Error(t, err)
	assert.Equal(t, CodeAccountInactive, apperr.CodeOf(err))
}

/*
TestAuthenticate_LastLoginWriteFailure verifies that a failed last-login write
aborts the login with PERSISTENCE_ERROR and no token is issued.
*/
func TestAuthenticate_LastLoginWriteFailure(t *testing.T) {
	service, repo := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")
	repo.lastLoginErr = errors.New("disk full")

	result, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, CodePersistenceError, apperr.CodeOf(err))
}

/*
TestAuthenticate_StorageFailure verifies that a lookup infrastructure failure
is reported as PERSISTENCE_ERROR, never disguised as bad credentials.
*/
func TestAuthenticate_StorageFailure(t *testing.T) {
	service, repo := newTestService(t)
	repo.findErr = errors.New("connection refused")

	_, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.Error(t, err)
	assert.Equal(t, CodePersistenceError, apperr.CodeOf(err))
}

// # Token Validation

/*
TestValidateToken_FailureKinds verifies the taxonomy for tokens that fail
before any storage interaction: garbage, tampering, and foreign signatures.
*/
func TestValidateToken_FailureKinds(t *testing.T) {
	service, _ := newTestService(t)
	result := mustRegister(t, service, "shopper@kaimono.shop")

	// A token signed under a different secret: decodes fine, verifies never.
	foreignCodec, err := sec.NewTokenService("ffffffffffffffffffffffffffffffff", "kaimono.shop", AccessTokenTTL)
	require.NoError(t, err)
	foreignToken, err := foreignCodec.Issue("some-id", "shopper@kaimono.shop", time.Now())
	require.NoError(t, err)

	// Flip a character in the signature segment of a genuine token. The
	// header and payload still decode, but the signature no longer matches.
	tampered := []byte(result.Token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"empty", "", CodeMalformedToken},
		{"not_a_token", "definitely-not-a-jwt", CodeMalformedToken},
		{"two_segments", "aaaa.bbbb", CodeMalformedToken},
		{"foreign_signature", foreignToken, CodeInvalidSignature},
		{"tampered_signature", string(tampered), CodeInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(context.Background(), tt.token)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}
}

/*
TestValidateToken_Expired verifies that a correctly signed token past its TTL
is rejected with EXPIRED_TOKEN.
*/
func TestValidateToken_Expired(t *testing.T) {
	service, _ := newTestService(t)
	mustRegister(t, service, "shopper@kaimono.shop")

	// Authenticate with a clock far enough in the past that the issued
	// token's expiry predates the real clock used during validation.
	service.now = func() time.Time { return time.Now().Add(-AccessTokenTTL - time.Hour) }
	result, err := service.Authenticate(context.Background(), "shopper@kaimono.shop", "correct horse battery")
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.ValidateToken(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, CodeExpiredToken, apperr.CodeOf(err))
}

/*
TestValidateToken_StaleIdentity verifies the storage round-trip: a token that
still verifies cryptographically is rejected once the account behind it is
deactivated or gone.
*/
func TestValidateToken_StaleIdentity(t *testing.T) {
	service, repo := newTestService(t)
	result := mustRegister(t, service, "a@x.com")

	// Sanity: the token is valid while the account is live.
	_, err := service.ValidateToken(context.Background(), result.Token)
	require.NoError(t, err)

	// Deactivate the account; the same token must now be rejected.
	for _, identity := range repo.byID {
		identity.IsActive = false
	}
	_, err = service.ValidateToken(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, CodeAccountInactive, apperr.CodeOf(err))

	// Delete the account entirely; the kind changes accordingly.
	repo.byID = make(map[string]*Identity)
	_, err = service.ValidateToken(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, CodeIdentityNotFound, apperr.CodeOf(err))
}

/*
TestValidateToken_StorageFailure verifies that an infrastructure failure during
the identity round-trip is reported as PERSISTENCE_ERROR.
*/
func TestValidateToken_StorageFailure(t *testing.T) {
	service, repo := newTestService(t)
	result := mustRegister(t, service, "shopper@kaimono.shop")

	repo.findErr = errors.New("connection refused")
	_, err := service.ValidateToken(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, CodePersistenceError, apperr.CodeOf(err))
}
