package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// TrackID is a unique identifier for a track within a guild session.
type TrackID string

// TrackInfo is the immutable metadata of a playable item as reported by the resolver.
type TrackInfo struct {
	Identifier string
	Encoded    string // backend-encoded track data
	Title      string
	Author     string
	URI        string // empty when the source has no public link
	ArtworkURL string
	SourceName string // e.g., "deezer", "youtube", "soundcloud"
	Duration   time.Duration
	IsStream   bool
	IsSeekable bool
}

// Annotation is the metadata attached to a track when it is enqueued.
type Annotation struct {
	RequesterID snowflake.ID

	// Set only when the track was found through a fallback resolver.
	ResolvedBy     string
	ResolvedTitle  string
	ResolvedAuthor string
	ResolvedURI    string
}

// IsFallback reports whether the track was found through a fallback resolver.
func (a Annotation) IsFallback() bool {
	return a.ResolvedBy != ""
}

// Track is a playable item plus the annotation of whoever requested it.
// A Track is not modified after it is handed to a Queue.
type Track struct {
	ID         TrackID
	Info       TrackInfo
	Annotation Annotation
	EnqueuedAt time.Time
}

// NewTrack creates a new Track requested by requesterID.
func NewTrack(id TrackID, info TrackInfo, requesterID snowflake.ID) *Track {
	return &Track{
		ID:         id,
		Info:       info,
		Annotation: Annotation{RequesterID: requesterID},
		EnqueuedAt: time.Now().UTC(),
	}
}

// WithResolved returns a copy of the track whose info and annotation are
// replaced by the metadata a fallback resolver reported for it.
func (t *Track) WithResolved(resolver, title, author, uri string) *Track {
	c := *t
	if title != "" {
		c.Info.Title = title
	}
	if author != "" {
		c.Info.Author = author
	}
	if uri != "" {
		c.Info.URI = uri
	}
	c.Annotation = Annotation{
		RequesterID:    t.Annotation.RequesterID,
		ResolvedBy:     resolver,
		ResolvedTitle:  title,
		ResolvedAuthor: author,
		ResolvedURI:    uri,
	}
	return &c
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.Info.SourceName)
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Info.Encoded != "" && t.Info.Title != ""
}

// CanSeek reports whether the backend accepts position changes for this track.
func (t *Track) CanSeek() bool {
	return t.Info.IsSeekable && !t.Info.IsStream
}

// DisplayName returns "author - title", or just the title when the author is unknown.
func (t *Track) DisplayName() string {
	if t.Info.Author == "" {
		return t.Info.Title
	}
	return t.Info.Author + " - " + t.Info.Title
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.Info.IsStream {
		return "LIVE"
	}
	return FormatClock(t.Info.Duration, false)
}

// FormatClock formats d as mm:ss, or hh:mm:ss when d is at least an hour or
// alwaysHours is set.
func FormatClock(d time.Duration, alwaysHours bool) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 || alwaysHours {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
