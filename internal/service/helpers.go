package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(constants.EmailPattern)

// passwordCost is lowered in tests.
var passwordCost = bcrypt.DefaultCost

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func withFunction(ctx context.Context, function string) context.Context {
	return ctxutil.WithFunction(ctx, "service", function)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) bool {
	return len(email) <= constants.MaxEmailLength && emailRegex.MatchString(email)
}

// validPassword bounds the password by bcrypt's 72 byte input limit.
func validPassword(password string) bool {
	return len(password) >= constants.MinPasswordLength && len(password) <= constants.MaxPasswordLength
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// burnPasswordCheck spends the same time as a real comparison so unknown
// emails are not distinguishable by latency.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), passwordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.PhoneNumber(),
		Role:        user.Role.String(),
		Status:      user.Status.String(),
		Department:  user.Department,
		Address:     user.Address,
		Image:       user.Image,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
