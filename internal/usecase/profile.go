package usecase

import (
	"context"
	"mime/multipart"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
	"github.com/ptescayola/uptask-backend/internal/storage"
)

// ProfileUsecase defines the business logic for profile-image handling.
type ProfileUsecase interface {
	// SetProfileImage stores an uploaded image, points the user at it and
	// removes any previously stored image. Returns the stored filename.
	SetProfileImage(ctx context.Context, user *model.User, file multipart.File, header *multipart.FileHeader) (string, error)

	// RemoveProfileImage clears the user's profile image reference and
	// deletes the stored file. Removing an unset image is a no-op.
	RemoveProfileImage(ctx context.Context, user *model.User) error
}

type profileUsecase struct {
	userRepo repository.UserRepository
	uploads  *storage.UploadStorage
}

// NewProfileUsecase creates a new instance of ProfileUsecase.
func NewProfileUsecase(userRepo repository.UserRepository, uploads *storage.UploadStorage) ProfileUsecase {
	return &profileUsecase{
		userRepo: userRepo,
		uploads:  uploads,
	}
}

func (u *profileUsecase) SetProfileImage(
	ctx context.Context,
	user *model.User,
	file multipart.File,
	header *multipart.FileHeader,
) (string, error) {
	filename, err := u.uploads.SaveProfileImage(file, header)
	if err != nil {
		return "", err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ProfileImage: &filename,
	}); err != nil {
		return "", err
	}

	// The database reference is updated first; only then is the replaced
	// file removed.
	if user.ProfileImage != nil {
		if err := u.uploads.RemoveProfileImage(*user.ProfileImage); err != nil {
			return "", err
		}
	}

	return filename, nil
}

func (u *profileUsecase) RemoveProfileImage(ctx context.Context, user *model.User) error {
	if user.ProfileImage == nil {
		return nil
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ClearProfileImage: true,
	}); err != nil {
		return err
	}

	return u.uploads.RemoveProfileImage(*user.ProfileImage)
}
