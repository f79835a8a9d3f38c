package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"blogpress/internal/model"
	"blogpress/internal/pkg/jwtutil"
	"blogpress/internal/pkg/password"
	"blogpress/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("user already exists")
	ErrUnknownUser       = errors.New("user does not exist")
	ErrInvalidCredential = errors.New("invalid password")
	ErrForbidden         = errors.New("not authorized")
	ErrPostNotFound      = errors.New("post not found")
	ErrCommentNotFound   = errors.New("comment not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ActivityPublisher enqueues audit events. Implementations must be safe for
// concurrent use; a nil publisher disables auditing.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

type AuthService struct {
	userRepo      *repository.UserRepository
	publisher     ActivityPublisher
	jwtSecret     string
	jwtExpiration time.Duration
	defaultAvatar string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateUserInput struct {
	UserID      uint
	Name        string
	Email       string
	OldPassword string
	NewPassword string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	userRepo *repository.UserRepository,
	publisher ActivityPublisher,
	jwtSecret string,
	jwtExpiration time.Duration,
	defaultAvatar string,
) *AuthService {
	if defaultAvatar == "" {
		defaultAvatar = model.DefaultProfilePicture
	}
	return &AuthService{
		userRepo:      userRepo,
		publisher:     publisher,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		defaultAvatar: defaultAvatar,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if name == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, fmt.Errorf("%w: name, email and password are required and cannot be blank", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(strings.TrimSpace(input.Password)) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters long", ErrInvalidInput)
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		ProfilePicture: s.defaultAvatar,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.ActivityUserRegistered, user.ID, user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	ok, err := password.Verify(user.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}

// UpdateUser overwrites name and email when provided. Changing the password
// requires the current one to verify first.
func (s *AuthService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetUserByID(input.UserID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(input.Email); email != "" && email != user.Email {
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
		}
		taken, err := s.userRepo.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrEmailExists
		}
		user.Email = email
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return nil, fmt.Errorf("%w: old password is required to update the password", ErrInvalidInput)
		}
		ok, err := password.Verify(user.PasswordHash, input.OldPassword)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: old password is incorrect", ErrInvalidInput)
		}
		hash, err := password.Hash(input.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account and everything it authored in one
// transaction.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteWithPosts(user.ID); err != nil {
		return err
	}
	s.publish(ctx, model.ActivityUserDeleted, userID, userID)
	return nil
}

// SetProfilePicture stores the uploaded image inline as a data-URI.
func (s *AuthService) SetProfilePicture(ctx context.Context, userID uint, mimeType string, data []byte) (*model.User, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", ErrInvalidInput)
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = dataURI(mimeType, data)
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, kind string, actorID, subjectID uint) {
	if s.publisher == nil {
		return
	}
	activity := model.Activity{Kind: kind, ActorID: actorID, SubjectID: subjectID}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		log.Printf("publish activity %s failed: %v", kind, err)
	}
}
