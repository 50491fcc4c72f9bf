package service

import (
	"context"

	"ticketya/internal/model"
	"ticketya/internal/qrtoken"
	"ticketya/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// PersonalQR mints the signed token other users scan to send this user a
	// ticket.
	PersonalQR(ctx context.Context, userID uuid.UUID) (string, error)
}

type UserServiceImpl struct {
	users repository.UserRepository
	codec *qrtoken.Codec
}

func NewUserService(users repository.UserRepository, codec *qrtoken.Codec) UserService {
	return &UserServiceImpl{users: users, codec: codec}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserServiceImpl) PersonalQR(ctx context.Context, userID uuid.UUID) (string, error) {
	// the user must exist; a token for a deleted account would verify but
	// never resolve
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return "", err
	}
	return s.codec.IssuePersonalToken(userID.String())
}
