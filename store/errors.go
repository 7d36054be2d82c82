package store

import (
	"errors"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrUserNotFound)
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, apperror.ErrUserAlreadyExists)
}
