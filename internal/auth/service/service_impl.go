package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/auth/token"
	"github.com/fiscalbr/classtrib/pkg/db"
)

type serviceParams struct {
	fx.In

	Log    *zap.Logger
	Repo   domain.Repository
	Tokens *token.Manager
	Node   *snowflake.Node
}

type service struct {
	log    *zap.Logger
	repo   domain.Repository
	tokens *token.Manager
	node   *snowflake.Node
}

func New(p serviceParams) domain.Service {
	return &service{
		log:    p.Log.Named("auth.service"),
		repo:   p.Repo,
		tokens: p.Tokens,
		node:   p.Node,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.Info("login rejected", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		s.log.Info("login rejected for inactive user", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	view := user.View()
	return &domain.LoginResponse{Token: signed, User: view}, nil
}

func (s *service) Profile(ctx context.Context, id snowflake.ID) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *service) ListUsers(ctx context.Context) ([]domain.UserView, int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	views := make([]domain.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, total, nil
}

func (s *service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.UserView, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           s.node.Generate(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		TaxID:        strings.TrimSpace(req.TaxID),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	view := user.View()
	return &view, nil
}

func (s *service) UpdateUser(ctx context.Context, id snowflake.ID, req domain.UpdateUserRequest) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.TaxID != nil {
		user.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Role != nil {
		if *req.Role != domain.RoleAdmin && *req.Role != domain.RoleUser {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

func (s *service) DeleteUser(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}
