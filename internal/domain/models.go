// Package domain defines the persistence model for the media catalog. The
// catalog is mapped with GORM and is the source of truth mirrored into the
// hosted search index.
package domain

// MediaRecord is one catalog entry derived from a library channel post.
// A record is created exactly once per distinct channel post and is never
// updated or deleted by this system; the search index holds a projection
// of it keyed by the synthetic ID.
//
// Fields:
//   - ID: synthetic auto-increment primary key, assigned by the store.
//   - Title: first caption line of the originating post; indexed.
//   - PostID: message ID of the originating post in the library channel.
//     Unique, so channel edits and reposts cannot create duplicate entries.
type MediaRecord struct {
	ID     int64  `json:"id"      gorm:"primaryKey;autoIncrement"`
	Title  string `json:"title"   gorm:"type:varchar(512);not null;index:idx_movies_title"`
	PostID int64  `json:"post_id" gorm:"not null;uniqueIndex:ux_movies_post_id"`
}

// TableName returns the database table name for MediaRecord.
func (MediaRecord) TableName() string { return "movies" }
