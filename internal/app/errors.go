package app

import (
	"errors"

	"github.com/khrees2412/jobportal/internal/gateway"
)

// Sentinel errors for common application errors
var (
	ErrNotFound         = gateway.ErrNotFound
	ErrInvalidArgument  = gateway.ErrInvalidArgument
	ErrUnauthorized     = gateway.ErrUnauthorized
	ErrForbidden        = errors.New("not allowed for this role")
	ErrNoSession        = errors.New("not logged in")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrAlreadyApplied   = errors.New("already applied to this job")
	ErrNotEligible      = errors.New("qualification outside the job's range")
	ErrFinalStatus      = errors.New("application has already been reviewed")
)
