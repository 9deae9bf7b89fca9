// ABOUTME: Version is one persisted snapshot of a document's content blocks plus its metadata.
// ABOUTME: Version IDs are ULIDs minted from crypto/rand so they sort by creation time.

package content

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Version lifecycle states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Version is a full set of content blocks representing one point in the
// draft/publish lifecycle. Storage of versions belongs to the caller.
type Version struct {
	ID            string    `json:"id" yaml:"id"`
	Label         string    `json:"label,omitempty" yaml:"label,omitempty"`
	Status        string    `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	ContentBlocks []Block   `json:"content_blocks" yaml:"content_blocks"`
}

// NewVersionID generates a new ULID string using crypto/rand entropy.
func NewVersionID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewVersion creates a draft Version holding a copy of blocks.
func NewVersion(label, createdBy string, blocks []Block) Version {
	return Version{
		ID:            NewVersionID(),
		Label:         label,
		Status:        StatusDraft,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     createdBy,
		ContentBlocks: CloneBlocks(blocks),
	}
}

// Clone returns a copy of v that shares no block storage with it.
func (v Version) Clone() Version {
	c := v
	c.ContentBlocks = CloneBlocks(v.ContentBlocks)
	return c
}
