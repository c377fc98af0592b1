package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FallbackUser is the designated identity substituted when a record arrives
// without an author. Mirrors the resident curation account.
var FallbackUser = User{
	ID:          "admin_01",
	Username:    "ravetok",
	DisplayName: "Master Resident",
	Avatar:      "https://images.unsplash.com/photo-1614613535308-eb5fbd3d2c17?w=200&h=200&fit=crop",
	Role:        "resident",
	Followers:   12400,
	Bio:         "Master Resident Authority. Oversight and Global Broadcast Control.",
	ThemeColor:  "pink",
}

// Defaults substituted for absent text fields.
const (
	DefaultTrackTitle = "Unknown Signal"
	DefaultArtist     = "Unknown Archivist"
)

// DefaultTags is the tag set substituted when a record carries none.
var DefaultTags = []string{"rave"}

// FlexInt decodes JSON numbers that may arrive as numbers, numeric strings,
// or null. Anything unreadable decodes to zero rather than failing the
// enclosing record.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// FlexBool decodes JSON booleans that may arrive as booleans, strings, or
// numbers, treating anything unreadable as false.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte(`"true"`)), bytes.Equal(data, []byte("1")):
		*f = true
	default:
		*f = false
	}
	return nil
}

// FlexTime decodes a timestamp that may arrive as an RFC 3339 string, a unix
// millisecond number, or be absent entirely.
type FlexTime time.Time

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexTime(time.Time{})
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				*f = FlexTime(t)
				return nil
			}
		}
		*f = FlexTime(time.Time{})
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil && ms > 0 {
		*f = FlexTime(time.UnixMilli(ms).UTC())
		return nil
	}
	*f = FlexTime(time.Time{})
	return nil
}

func (f FlexTime) Time() time.Time { return time.Time(f) }

// RawPost is a loosely typed post record as read back from the cache store,
// delivered by the cloud snapshot stream, or composed by the upload surface.
// No shape guarantee holds here; Sanitize is the single point that turns a
// RawPost into a total Post.
type RawPost struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	User        *User         `json:"user"`
	TrackTitle  string        `json:"trackTitle"`
	Artist      string        `json:"artist"`
	VideoURL    string        `json:"videoUrl"`
	VideoRef    string        `json:"videoRef"`
	AudioURL    string        `json:"audioUrl"`
	Thumbnail   string        `json:"thumbnail"`
	Description string        `json:"description"`
	Likes       FlexInt       `json:"likes"`
	Reposts     FlexInt       `json:"reposts"`
	Shares      FlexInt       `json:"shares"`
	Comments    []Comment     `json:"comments"`
	Tags        []string      `json:"tags"`
	Source      string        `json:"source"`
	Shop        *ShopMetadata `json:"shopMetadata"`
	IsLiked     FlexBool      `json:"isLiked"`
	IsSaved     FlexBool      `json:"isSaved"`
	IsReposted  FlexBool      `json:"isReposted"`
	IsMix       FlexBool      `json:"isMix"`
	Origin      string        `json:"origin"`
	RemoteID    string        `json:"remoteId"`
	SyncStatus  string        `json:"syncStatus"`
	CreatedAt   FlexTime      `json:"createdAt"`
}

// Sanitize normalizes an arbitrary record into a well-formed Post, filling a
// documented default for every absent field. A nil input signals a no-op and
// yields nil; Sanitize itself never fails. Inputs arrive from three
// untrusted sources (cloud snapshots, cache deserialization, freshly
// composed payloads), so this is the single point of shape normalization.
func Sanitize(raw *RawPost) *Post {
	if raw == nil {
		return nil
	}

	user := FallbackUser
	if raw.User != nil {
		user = *raw.User
	}

	id := raw.ID
	if id == "" {
		id = NewLocalID(time.Now())
	}

	p := &Post{
		ID:          id,
		UserID:      nonEmpty(raw.UserID, user.ID),
		User:        user,
		TrackTitle:  nonEmpty(raw.TrackTitle, DefaultTrackTitle),
		Artist:      nonEmpty(raw.Artist, DefaultArtist),
		VideoURL:    raw.VideoURL,
		VideoRef:    raw.VideoRef,
		AudioURL:    raw.AudioURL,
		Thumbnail:   raw.Thumbnail,
		Description: raw.Description,
		Likes:       int(raw.Likes),
		Reposts:     int(raw.Reposts),
		Shares:      int(raw.Shares),
		Comments:    raw.Comments,
		Tags:        raw.Tags,
		Source:      Source(nonEmpty(raw.Source, string(SourceUpload))),
		Shop:        raw.Shop,
		Liked:       bool(raw.IsLiked),
		Saved:       bool(raw.IsSaved),
		Reposted:    bool(raw.IsReposted),
		Mix:         bool(raw.IsMix),
		RemoteID:    raw.RemoteID,
		SyncStatus:  SyncStatus(raw.SyncStatus),
		CreatedAt:   raw.CreatedAt.Time(),
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if len(p.Tags) == 0 {
		p.Tags = append([]string(nil), DefaultTags...)
	}

	switch Origin(raw.Origin) {
	case OriginLocal, OriginRemote:
		p.Origin = Origin(raw.Origin)
	default:
		// Records written before provenance was explicit carry no origin;
		// fall back to the identity shape for those only.
		if strings.HasPrefix(p.ID, LocalIDPrefix) {
			p.Origin = OriginLocal
		} else {
			p.Origin = OriginRemote
		}
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = TimestampFromID(p.ID)
	}

	return p
}

// Normalize re-asserts Post totality on an already typed value, e.g. one
// rebuilt from stored JSON. Nil slices become empty, absent defaults are
// filled. Idempotent.
func Normalize(p *Post) *Post {
	if p == nil {
		return nil
	}
	cp := p.Clone()
	if cp.ID == "" {
		cp.ID = NewLocalID(time.Now())
	}
	if cp.User.ID == "" {
		cp.User = FallbackUser
	}
	if cp.UserID == "" {
		cp.UserID = cp.User.ID
	}
	if cp.TrackTitle == "" {
		cp.TrackTitle = DefaultTrackTitle
	}
	if cp.Artist == "" {
		cp.Artist = DefaultArtist
	}
	if cp.Source == "" {
		cp.Source = SourceUpload
	}
	if cp.Comments == nil {
		cp.Comments = []Comment{}
	}
	if len(cp.Tags) == 0 {
		cp.Tags = append([]string(nil), DefaultTags...)
	}
	if cp.Origin != OriginLocal && cp.Origin != OriginRemote {
		if strings.HasPrefix(cp.ID, LocalIDPrefix) {
			cp.Origin = OriginLocal
		} else {
			cp.Origin = OriginRemote
		}
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = TimestampFromID(cp.ID)
	}
	return cp
}

func nonEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
