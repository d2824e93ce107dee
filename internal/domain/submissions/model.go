package submissions

import "time"

type Kind string

const (
	KindDocument Kind = "document"
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// DefaultCaption is stored when an upload carries no caption.
const DefaultCaption = "No caption"

// Categories is the fixed set offered during upload and browse.
var Categories = []string{
	"Lectures", "Books", "Notes", "Assignments",
	"Projects", "Others", "Album Profiles", "Album Gallery",
}

func ValidCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

type Submission struct {
	ID         int64
	FileID     string
	UniqueID   string
	Kind       Kind
	Category   string
	Caption    string
	UploaderID int64
	Status     Status
	UploadedAt time.Time
}

// PendingItem is a queue entry joined with the uploader's display name.
type PendingItem struct {
	Submission
	UploaderName string
}
