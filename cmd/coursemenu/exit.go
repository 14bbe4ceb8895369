package main

import (
	"context"
	"errors"

	apperrors "coursemenu/internal/platform/errors"
)

const (
	exitOK          = 0
	exitUnexpected  = 1
	exitInvalid     = 2
	exitAuth        = 3
	exitFetch       = 4
	exitFilesystem  = 5
	exitInterrupted = 130
)

func exitCode(err error, interrupted bool) int {
	switch {
	case err == nil:
		return exitOK
	case interrupted || errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, apperrors.ErrInvalidInput):
		return exitInvalid
	case errors.Is(err, apperrors.ErrAuthentication):
		return exitAuth
	case errors.Is(err, apperrors.ErrFetch), errors.Is(err, apperrors.ErrNotFound):
		return exitFetch
	case errors.Is(err, apperrors.ErrFilesystem):
		return exitFilesystem
	default:
		return exitUnexpected
	}
}

// likelyCauses lists what usually produces err, most likely first.
func likelyCauses(err error) []string {
	switch {
	case errors.Is(err, apperrors.ErrAuthentication):
		return []string{
			"STEPIK_CLIENT_ID or STEPIK_CLIENT_SECRET is wrong or revoked",
			"the application is not registered for client credentials",
		}
	case errors.Is(err, apperrors.ErrNotFound):
		return []string{
			"the course id does not exist",
			"the course is private and your account has no access",
		}
	case errors.Is(err, apperrors.ErrFetch):
		return []string{
			"no network connection or the API host is unreachable",
			"--content full needs author rights on the course",
			"the API rate limit was hit, retry with a lower --concurrency",
		}
	case errors.Is(err, apperrors.ErrFilesystem):
		return []string{"the output directory is not writable"}
	}
	return nil
}
