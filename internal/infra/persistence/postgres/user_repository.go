package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/errors"
	"warden/internal/infra/persistence/model"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
// Reads go to the primary so a refresh never observes a lagging replica's stale token hash.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their normalized email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user and fills in its ID, version and timestamps.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate user id")
		}
		user.ID = id
	}
	now := time.Now().UTC()
	user.Version = 1
	user.CreatedAt = now
	user.UpdatedAt = now

	userM := fromUserDomain(user)
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isDuplicateEmail(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// Save performs a compare-and-set on the version column.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]any{
			"username":           user.Username,
			"password_hash":      user.PasswordHash,
			"refresh_token_hash": toNullString(user.RefreshTokenHash),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to save user")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).
			Clauses(dbresolver.Write).
			Model(&model.UserModel{}).
			Where("id = ?", user.ID).
			Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to check user existence")
		}
		if count == 0 {
			return repository.ErrUserNotFound
		}

		return repository.ErrStaleUser
	}

	user.Version++
	user.UpdatedAt = now

	return nil
}

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:               data.ID,
		Email:            data.Email,
		Username:         data.Username,
		PasswordHash:     data.PasswordHash,
		RefreshTokenHash: data.RefreshTokenHash.String,
		Version:          data.Version,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:               data.ID,
		Email:            data.Email,
		Username:         data.Username,
		PasswordHash:     data.PasswordHash,
		RefreshTokenHash: toNullString(data.RefreshTokenHash),
		Version:          data.Version,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
