package domain

import "time"

// UploadRequest carries one uploaded file and its owner
type UploadRequest struct {
	Content      []byte
	OriginalName string
	ClientToken  string
	Client       *Client
}

// ValidationResult is the outcome of checking an uploaded file
type ValidationResult struct {
	Accepted     bool
	DetectedKind string
	Reason       string
}

// RemoteArtifact is one file listed from a remote directory.
// It mirrors remote state and is only valid for the listing that produced it.
type RemoteArtifact struct {
	Name       string
	Size       int64
	ModifiedAt *time.Time
}

// ModTime returns the modification time, or the zero epoch when unknown
func (a RemoteArtifact) ModTime() time.Time {
	if a.ModifiedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *a.ModifiedAt
}

// RetentionPlan lists the artifacts to delete, oldest first
type RetentionPlan struct {
	ToDelete []RemoteArtifact
}

// Names returns the names of the artifacts in the plan
func (p RetentionPlan) Names() []string {
	names := make([]string, 0, len(p.ToDelete))
	for _, artifact := range p.ToDelete {
		names = append(names, artifact.Name)
	}
	return names
}

// Credentials are the parameters needed to open a remote store session
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	Secure   bool
	Timeout  time.Duration
}

// ArchiveResult describes a backup stored on the remote store
type ArchiveResult struct {
	Location  string
	Directory string
	FileName  string
	SizeBytes int64
	Evicted   []string
}

// Message returns the human readable location sent back to the client
func (r ArchiveResult) Message() string {
	return "file sent to " + r.Location
}
