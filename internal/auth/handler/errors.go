package handler

import (
	"errors"

	"github.com/Yrcd27/mirror-auth-service/internal/auth/password"
)

func isPolicyError(err error) bool {
	var policyErr *password.PolicyError
	return errors.As(err, &policyErr)
}
