package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/alpenstay/alpenstay/internal/auth/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	users    repository.Repository[domain.User]
	sessions repository.Repository[domain.Session]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("auth.service"),

		genID:    p.GenID,
		users:    repository.ProvideStore[domain.User](p.DB),
		sessions: repository.ProvideStore[domain.Session](p.DB),
	}
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.FindOne(ctx, &domain.Session{TokenHash: hashToken(token)})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.FindOne(ctx, &domain.User{ID: session.UserID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	identity := &domain.Identity{
		UserID: user.ID,
		Role:   user.Role,
	}
	if !identity.IsSuperAdmin() {
		slugs, err := s.establishmentSlugs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		identity.EstablishmentSlugs = slugs
	}
	return identity, nil
}

func (s *Service) IssueSession(ctx context.Context, userID snowflake.ID) (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	session := &domain.Session{
		ID:        s.genID.Generate(),
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// establishmentSlugs resolves the owner's establishment scope. Owners
// with no linked establishment get an empty, not nil, slice so the report
// layer treats them as restricted.
func (s *Service) establishmentSlugs(ctx context.Context, userID snowflake.ID) ([]string, error) {
	slugs := []string{}
	err := s.db.WithContext(ctx).
		Model(&establishmentdomain.Establishment{}).
		Joins("JOIN user_establishments ON user_establishments.establishment_id = establishments.id").
		Where("user_establishments.user_id = ?", userID).
		Pluck("establishments.slug", &slugs).Error
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
