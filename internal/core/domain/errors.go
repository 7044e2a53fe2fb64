package domain

import "errors"

// ErrValidation is an error thrown when an uploaded file is not an accepted backup
var ErrValidation = errors.New("invalid backup file")

// ErrConnection is an error thrown when the remote store cannot be reached or authenticated
var ErrConnection = errors.New("remote store connection failed")

// ErrDirectory is an error thrown when the client directory cannot be created or entered
var ErrDirectory = errors.New("remote directory unavailable")

// ErrListing is an error thrown when the client directory cannot be listed
var ErrListing = errors.New("remote directory listing failed")

// ErrEviction is an error thrown when a backup slated for removal cannot be deleted
var ErrEviction = errors.New("backup eviction failed")

// ErrUpload is an error thrown when the new backup cannot be transferred
var ErrUpload = errors.New("backup upload failed")

// ErrTransfer is the generic error surfaced to callers for any remote store failure
var ErrTransfer = errors.New("failed to send file to remote store")

// ErrInvalidRetention is an error thrown when the retention cap is not positive
var ErrInvalidRetention = errors.New("retention max count must be greater than zero")

// ErrClientNotFound is an error thrown when no client matches a token
var ErrClientNotFound = errors.New("client not found")

// ErrUnauthorized is an error thrown when a token is missing, unknown or inactive
var ErrUnauthorized = errors.New("token not authorized")

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")
