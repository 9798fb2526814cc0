package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return manager
}

func TestIssueAndParseAccess(t *testing.T) {
	manager := newTestManager(t)

	issued, err := manager.IssueAccess(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := manager.ParseAccess(issued.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, TypeAccess, claims.Type)

	id, err := claims.AccountID()
	require.NoError(t, err)
	require.Equal(t, uint(42), id)
}

func TestRefreshTokensHaveUniqueIDs(t *testing.T) {
	manager := newTestManager(t)

	first, err := manager.IssueRefresh(7)
	require.NoError(t, err)
	second, err := manager.IssueRefresh(7)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)

	claims, err := manager.ParseRefresh(first.Token)
	require.NoError(t, err)
	require.Equal(t, first.ID, claims.ID)
	require.Equal(t, TypeRefresh, claims.Type)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	manager := newTestManager(t)

	access, err := manager.IssueAccess(1, "student")
	require.NoError(t, err)
	refresh, err := manager.IssueRefresh(1)
	require.NoError(t, err)

	_, err = manager.ParseRefresh(access.Token)
	require.Error(t, err)

	_, err = manager.ParseAccess(refresh.Token)
	require.Error(t, err)
}

func TestParseRejectsSameSecretWrongType(t *testing.T) {
	manager, err := NewManager(Config{AccessSecret: "shared", RefreshSecret: "shared"})
	require.NoError(t, err)

	refresh, err := manager.IssueRefresh(3)
	require.NoError(t, err)

	_, err = manager.ParseAccess(refresh.Token)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := newTestManager(t)
	base := time.Now()
	manager.WithClock(func() time.Time { return base })

	issued, err := manager.IssueAccess(5, "student")
	require.NoError(t, err)

	manager.WithClock(func() time.Time { return base.Add(16 * time.Minute) })
	_, err = manager.ParseAccess(issued.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	manager := newTestManager(t)

	claims := Claims{
		Type: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = manager.ParseAccess(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.ParseAccess("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.ParseRefresh("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresSecrets(t *testing.T) {
	_, err := NewManager(Config{AccessSecret: "only-one"})
	require.Error(t, err)
}
