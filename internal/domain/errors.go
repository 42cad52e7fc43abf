package domain

import "errors"

var (
	// ErrNotAuthenticated is returned when no principal accompanies a request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidAnswers is returned for a missing or empty answer set.
	ErrInvalidAnswers = errors.New("invalid or missing answers")
	// ErrNoEmail is returned when neither the request nor the principal carries an email.
	ErrNoEmail = errors.New("no user email found")
	// ErrCatalogEmpty indicates the question catalog has not been seeded.
	ErrCatalogEmpty = errors.New("question catalog is empty")
	// ErrNoSubmissions indicates the summary view has nothing to read back.
	ErrNoSubmissions = errors.New("no submissions found")
	// ErrWizardSessionNotFound is returned when a wizard session id is unknown.
	ErrWizardSessionNotFound = errors.New("wizard session not found")
)
