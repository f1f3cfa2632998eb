package domain

import (
	"fmt"
	"strings"
	"time"

	"moneywatch/internal/platform/money"
	"moneywatch/internal/platform/slug"
)

type Category string

const (
	CategoryVideoStream   Category = "video-stream"
	CategorySeriesEpisode Category = "series-episode"
	CategoryAudioTrack    Category = "audio-track"
	CategoryFilm          Category = "film"
)

// DefaultPlatform is recorded when the user leaves the platform blank.
const DefaultPlatform = "Manual"

var categoryAliases = map[string]Category{
	"youtube": CategoryVideoStream,
	"video":   CategoryVideoStream,
	"serie":   CategorySeriesEpisode,
	"series":  CategorySeriesEpisode,
	"musica":  CategoryAudioTrack,
	"music":   CategoryAudioTrack,
	"filme":   CategoryFilm,
	"movie":   CategoryFilm,
}

// Categories lists the enumeration in display order.
func Categories() []Category {
	return []Category{CategoryVideoStream, CategorySeriesEpisode, CategoryAudioTrack, CategoryFilm}
}

// ParseCategory accepts the canonical names and the short aliases, ignoring
// case, accents and separators. An empty value selects video-stream.
func ParseCategory(raw string) (Category, error) {
	if strings.TrimSpace(raw) == "" {
		return CategoryVideoStream, nil
	}
	key := slug.Make(raw)
	if alias, ok := categoryAliases[key]; ok {
		return alias, nil
	}
	c := Category(key)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Category) Validate() error {
	switch c {
	case CategoryVideoStream, CategorySeriesEpisode, CategoryAudioTrack, CategoryFilm:
		return nil
	default:
		return fmt.Errorf("unsupported category %q", string(c))
	}
}

func (c Category) Label() string {
	switch c {
	case CategoryVideoStream:
		return "Video"
	case CategorySeriesEpisode:
		return "Series"
	case CategoryAudioTrack:
		return "Music"
	case CategoryFilm:
		return "Film"
	default:
		return string(c)
	}
}

// Origin says which path produced a record.
type Origin string

const (
	OriginSession  Origin = "session"
	OriginQuickAdd Origin = "quick-add"
	OriginSeed     Origin = "seed"
)

// WatchRecord is immutable once appended. Seq is assigned by the store and
// grows with every append.
type WatchRecord struct {
	Seq         int64
	ID          string
	Title       string
	Category    Category
	DurationMin int
	Earnings    money.Money
	CreatedAt   time.Time
	Platform    string
	Origin      Origin
}

func (r WatchRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if r.DurationMin < 0 {
		return fmt.Errorf("duration must be non-negative")
	}
	if r.Earnings < 0 {
		return fmt.Errorf("earnings must be non-negative")
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// PlatformOrDefault substitutes DefaultPlatform for a blank platform.
func PlatformOrDefault(platform string) string {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return DefaultPlatform
	}
	return platform
}
