package service

import (
	"context"
	"testing"
	"time"

	"github.com/alpenstay/alpenstay/internal/auth/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.UserEstablishment{},
		&establishmentdomain.Establishment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node})
	return svc, db, node
}

func TestAuthenticateOwnerScope(t *testing.T) {
	svc, db, node := setup(t)

	est := establishmentdomain.Establishment{ID: node.Generate(), Slug: "hotel-a", Name: "Hotel A"}
	require.NoError(t, db.Create(&est).Error)

	owner := domain.User{ID: node.Generate(), Email: "owner@example.ch", DisplayName: "Owner", Role: domain.RoleOwner}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&domain.UserEstablishment{UserID: owner.ID, EstablishmentID: est.ID}).Error)

	token, err := svc.IssueSession(context.Background(), owner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, identity.UserID)
	assert.False(t, identity.IsSuperAdmin())
	assert.Equal(t, []string{"hotel-a"}, identity.EstablishmentSlugs)
}

func TestAuthenticateSuperAdminUnrestricted(t *testing.T) {
	svc, db, node := setup(t)

	admin := domain.User{ID: node.Generate(), Email: "admin@example.ch", DisplayName: "Admin", Role: domain.RoleSuperAdmin}
	require.NoError(t, db.Create(&admin).Error)

	token, err := svc.IssueSession(context.Background(), admin.ID)
	require.NoError(t, err)

	identity, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, identity.IsSuperAdmin())
	assert.Nil(t, identity.EstablishmentSlugs)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, db, node := setup(t)

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	user := domain.User{ID: node.Generate(), Email: "u@example.ch", DisplayName: "U", Role: domain.RoleOwner}
	require.NoError(t, db.Create(&user).Error)

	token, err := svc.IssueSession(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}
