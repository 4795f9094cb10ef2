package models

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// MediaType is the ItemType value recorded by the playback reporting store.
type MediaType string

const (
	MediaTypeMovie      MediaType = "Movie"
	MediaTypeEpisode    MediaType = "Episode"
	MediaTypeAudio      MediaType = "Audio"
	MediaTypeMusicVideo MediaType = "MusicVideo"
	MediaTypeLiveTV     MediaType = "TvChannel"
)

func (mt MediaType) Valid() bool {
	switch mt {
	case MediaTypeMovie, MediaTypeEpisode, MediaTypeAudio, MediaTypeMusicVideo, MediaTypeLiveTV:
		return true
	}
	return false
}

// Credentials identify one Jellyfin user for upstream calls.
type Credentials struct {
	UserID string
	Token  string
}

// Session maps an issued token's jti to the upstream credentials it was
// minted for. Owned exclusively by the session cache.
type Session struct {
	UserID    string
	Token     string
	Username  string
	CreatedAt time.Time
}

func (s Session) Credentials() Credentials {
	return Credentials{UserID: s.UserID, Token: s.Token}
}

// Timeframe scopes an aggregation query. The underlying query treats it as
// DateCreated > Start AND DateCreated <= End.
type Timeframe struct {
	Start time.Time
	End   time.Time
}

func (tf Timeframe) Validate() error {
	if tf.Start.IsZero() || tf.End.IsZero() {
		return errors.New("start and end are required")
	}
	if tf.End.Before(tf.Start) {
		return errors.New("end must not precede start")
	}
	return nil
}

type Person struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	Type string `json:"type"`
}

// ContentItem is resolved catalog metadata for one library entry. Episodes
// point at their season (or directly at their show) via ParentID.
type ContentItem struct {
	ID              string   `json:"id"`
	ParentID        string   `json:"parent_id,omitempty"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	ReleaseDate     string   `json:"release_date,omitempty"`
	CommunityRating float64  `json:"community_rating,omitempty"`
	ProductionYear  int      `json:"production_year,omitempty"`
	People          []Person `json:"people,omitempty"`
	Genres          []string `json:"genres,omitempty"`
	RuntimeSeconds  int64    `json:"runtime_seconds,omitempty"`
}

type AggregatedItem struct {
	Item              ContentItem `json:"item"`
	PlayCount         int64       `json:"play_count"`
	CompletedWatches  int64       `json:"completed_watches"`
	TotalWatchSeconds int64       `json:"total_watch_seconds"`
}

type AggregatedShow struct {
	Item            ContentItem `json:"item"`
	ShowName        string      `json:"show_name"`
	EpisodeCount    int         `json:"episode_count"`
	PlaybackSeconds int64       `json:"playback_seconds"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DeviceStats struct {
	Devices          []NameCount `json:"devices"`
	Clients          []NameCount `json:"clients"`
	OperatingSystems []NameCount `json:"operating_systems"`
}

// PunchCell is one non-empty cell of the day-of-week/hour histogram.
// Cells with no plays are absent, not zero-valued.
type PunchCell struct {
	DayOfWeek int   `json:"day_of_week"`
	Hour      int   `json:"hour"`
	Count     int64 `json:"count"`
}

type MonthlyShow struct {
	Month        string      `json:"month"`
	Show         ContentItem `json:"show"`
	ShowSeconds  int64       `json:"show_seconds"`
	MonthSeconds int64       `json:"month_seconds"`
}

type UnfinishedShow struct {
	Item            ContentItem `json:"item"`
	WatchedEpisodes int         `json:"watched_episodes"`
	TotalEpisodes   int         `json:"total_episodes"`
	LastWatched     time.Time   `json:"last_watched"`
}

type FavoriteActor struct {
	Name       string        `json:"name"`
	Count      int           `json:"count"`
	MovieCount int           `json:"movie_count"`
	ShowCount  int           `json:"show_count"`
	Movies     []ContentItem `json:"movies,omitempty"`
	Shows      []ContentItem `json:"shows,omitempty"`
}
