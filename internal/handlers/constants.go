package handlers

const (
	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Sign in to continue"
	ErrTooManyRequests     = "Too many attempts, wait a minute and try again"
	ErrInternalServerError = "Internal server error"

	// maxBodyBytes bounds request bodies; submitted code is small
	maxBodyBytes = 64 << 10
)
