package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Origin tells which side of the sync boundary a post record currently
// originates from. It is assigned at creation and carried on every post;
// a local post flips to remote only once the cloud store has confirmed an
// assigned remote identity for it.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// SyncStatus tracks the cloud-mirror state of a locally authored post.
type SyncStatus string

const (
	SyncNone    SyncStatus = ""        // never queued (authored while offline)
	SyncPending SyncStatus = "pending" // queued in the outbox
	SyncSynced  SyncStatus = "synced"  // cloud store confirmed the mirror
	SyncFailed  SyncStatus = "failed"  // gave up after bounded retries
)

// Source is the provenance tag of the content itself (how the clip entered
// the archive), distinct from Origin which is about sync state.
type Source string

const (
	SourceUpload      Source = "upload"
	SourceLibrary     Source = "library"
	SourceLive        Source = "live"
	SourceVideo       Source = "video"
	SourceMarketplace Source = "marketplace"
)

// LocalIDPrefix prefixes every locally minted post identity. The embedded
// unix-millisecond timestamp makes locally minted IDs sortable by recency.
const LocalIDPrefix = "post_"

// Favorites holds the genre/DJ affinity sets picked during onboarding.
// Only the profile and recommendation surfaces read them.
type Favorites struct {
	DJs     []string `json:"djs,omitempty"`
	Labels  []string `json:"labels,omitempty"`
	Artists []string `json:"artists,omitempty"`
	Genres  []string `json:"genres,omitempty"`
}

// User is a viewer identity attached to posts and comments. The feed core
// never mutates users; they are opaque denormalized values.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Avatar      string     `json:"avatar"`
	Role        string     `json:"role"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	Bio         string     `json:"bio,omitempty"`
	ThemeColor  string     `json:"themeColor,omitempty"`
	Favorites   *Favorites `json:"favorites,omitempty"`
}

// IsAuthority reports whether the user may reach curation surfaces.
func (u *User) IsAuthority() bool {
	return u != nil && (u.Role == "resident" || u.Role == "admin")
}

// Comment is an entry in a post's comment list. Comments are append-only:
// never edited, never removed.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	UserAvatar string    `json:"userAvatar"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      int       `json:"likes"`
}

// NewComment builds a comment authored by user.
func NewComment(user *User, text string) Comment {
	c := Comment{
		ID:        "c_" + uuid.NewString(),
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if user != nil {
		c.UserID = user.ID
		c.Username = user.Username
		c.UserAvatar = user.Avatar
	}
	return c
}

// ShopMetadata is the optional marketplace listing attached to a post.
type ShopMetadata struct {
	Price     string `json:"price"`
	Condition string `json:"condition"`
	Category  string `json:"category"`
}

// Post is the unit of feed content. Once produced by the sanitizer a Post is
// a total value: every field populated, slices non-nil. Posts are exposed by
// value to the presentation layer; only the engine produces new versions.
type Post struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	User        User          `json:"user"`
	TrackTitle  string        `json:"trackTitle"`
	Artist      string        `json:"artist"`
	VideoURL    string        `json:"videoUrl"`
	VideoRef    string        `json:"videoRef"` // external video ID (e.g. an 11-char YouTube ID)
	AudioURL    string        `json:"audioUrl"`
	Thumbnail   string        `json:"thumbnail"`
	Description string        `json:"description"`
	Likes       int           `json:"likes"`
	Reposts     int           `json:"reposts"`
	Shares      int           `json:"shares"`
	Comments    []Comment     `json:"comments"`
	Tags        []string      `json:"tags"`
	Source      Source        `json:"source"`
	Shop        *ShopMetadata `json:"shopMetadata,omitempty"`

	// Session-local viewer flags. UI state only, never authoritative counters.
	Liked    bool `json:"isLiked"`
	Saved    bool `json:"isSaved"`
	Reposted bool `json:"isReposted"`
	Mix      bool `json:"isMix"`

	// Sync provenance.
	Origin     Origin     `json:"origin"`
	RemoteID   string     `json:"remoteId,omitempty"` // cloud identity once a mirror is confirmed
	SyncStatus SyncStatus `json:"syncStatus,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Clone returns a deep copy so callers can hand posts out without aliasing
// the engine's state.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Comments = append([]Comment(nil), p.Comments...)
	cp.Tags = append([]string(nil), p.Tags...)
	if p.Shop != nil {
		shop := *p.Shop
		cp.Shop = &shop
	}
	if p.User.Favorites != nil {
		fav := *p.User.Favorites
		cp.User.Favorites = &fav
	}
	return &cp
}

// NewLocalID mints a fresh local post identity. The unix-millisecond prefix
// keeps locally minted IDs lexically ordered by creation time; the random
// suffix breaks same-millisecond collisions.
func NewLocalID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", LocalIDPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// TimestampFromID recovers the creation time embedded in a locally minted
// post ID. Returns the zero time when the ID carries no readable timestamp.
func TimestampFromID(id string) time.Time {
	rest, ok := strings.CutPrefix(id, LocalIDPrefix)
	if !ok {
		return time.Time{}
	}
	if i := strings.IndexByte(rest, '_'); i >= 0 {
		rest = rest[:i]
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
