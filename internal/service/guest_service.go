package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"tyrechat-be/internal/constant"
	"tyrechat-be/internal/dto"
)

type IGuestService interface {
	Register() (*dto.GuestRegisterResponse, error)
}

type guestService struct{}

func NewGuestService() IGuestService {
	return &guestService{}
}

// Register issues a "guest" + 10 digit identity. Nothing is persisted at
// registration time; guest rows appear once the guest actually chats.
func (s *guestService) Register() (*dto.GuestRegisterResponse, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000_000_000))
	if err != nil {
		return nil, err
	}
	return &dto.GuestRegisterResponse{
		GuestId: fmt.Sprintf("%s%010d", constant.GuestIDPrefix, n),
	}, nil
}
