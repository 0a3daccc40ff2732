package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id snowflake.ID) error
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Profile(ctx context.Context, id snowflake.ID) (*UserView, error)
	ListUsers(ctx context.Context) ([]UserView, int64, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error)
	UpdateUser(ctx context.Context, id snowflake.ID, req UpdateUserRequest) (*UserView, error)
	DeleteUser(ctx context.Context, id snowflake.ID) error
}
