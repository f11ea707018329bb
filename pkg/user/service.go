package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dhis2-sre/campus-events/internal/errdef"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"golang.org/x/crypto/argon2"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository *repository) *Service {
	return &Service{
		repository: repository,
	}
}

type Service struct {
	repository *repository
}

// Profile holds the editable personal details of a user
type Profile struct {
	FullName  string
	StudentID string
	Year      string
	Major     string
}

// SignUp creates an account with a student profile
func (s Service) SignUp(ctx context.Context, email string, password string, profile Profile) (*model.User, error) {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	user := &model.User{
		Email:    email,
		Password: hashedPassword,
		Profile: &model.UserProfile{
			FullName:  profile.FullName,
			StudentID: profile.StudentID,
			Year:      profile.Year,
			Major:     profile.Major,
			Role:      model.RoleStudent,
		},
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	const unauthorizedError = "invalid email and password combination"

	user, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized(unauthorizedError)
		}
		return nil, err
	}

	match, err := comparePasswords(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized(unauthorizedError)
	}

	return user, nil
}

const (
	argon2Memory      = 128 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32
)

// hashPassword hashes the password using argon2id and encodes it in the PHC string format
func hashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory, argon2Iterations, argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	parts := strings.Split(storedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("invalid password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid password version: %v", err)
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid password parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %v", err)
	}

	storedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %v", err)
	}

	hash := argon2.IDKey([]byte(suppliedPassword), salt, iterations, memory, parallelism, uint32(len(storedHash)))

	return subtle.ConstantTimeCompare(hash, storedHash) == 1, nil
}

func (s Service) FindAll(ctx context.Context, search string, role model.Role) ([]*model.User, error) {
	return s.repository.findAll(ctx, userFilter{search: search, role: role})
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

// FindOrCreate returns the user with the given email or creates it with the given password and role.
func (s Service) FindOrCreate(ctx context.Context, email string, password string, role model.Role) (*model.User, error) {
	user, err := s.repository.findByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %s", err)
	}

	user = &model.User{
		Email:    email,
		Password: hashedPassword,
		Profile:  &model.UserProfile{Role: role},
	}

	return user, s.repository.create(ctx, user)
}

func (s Service) UpdateProfile(ctx context.Context, id uint, profile Profile) (*model.User, error) {
	err := s.repository.updateProfile(ctx, &model.UserProfile{
		ID:        id,
		FullName:  profile.FullName,
		StudentID: profile.StudentID,
		Year:      profile.Year,
		Major:     profile.Major,
	})
	if err != nil {
		return nil, err
	}

	return s.repository.findById(ctx, id)
}

func (s Service) UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error) {
	if err := s.repository.updateRole(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repository.findById(ctx, id)
}

func (s Service) Delete(ctx context.Context, id uint) error {
	return s.repository.delete(ctx, id)
}
