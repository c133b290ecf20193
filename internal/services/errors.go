package service

import (
	"errors"

	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
)

// repoError turns a repository failure into an API error. AppErrors pass
// through untouched.
func repoError(err error, entity, action string) error {
	if err == nil {
		return nil
	}

	if appErr, ok := appErrors.IsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.NotFoundError(entity + " not found").WithError(err)
	}

	return appErrors.DatabaseError("Failed to " + action).WithError(err)
}
