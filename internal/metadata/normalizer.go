package metadata

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ytmgrab/ytmgrab/internal/model"
)

// Raw carries the unprocessed metadata fields reported by the extractor for
// a single video. Any field may be empty; the Normalizer decides which
// sources to trust and in what order.
type Raw struct {
	Title       string
	Uploader    string
	Channel     string
	Artist      string
	Creator     string
	Track       string
	AltTitle    string
	Album       string
	Description string
	UploadDate  string
	ReleaseYear int
	Duration    float64
}

// maxTitleArtistLen caps the artist candidate taken from an
// "Artist - Title" split, to avoid mistaking a long title fragment for a
// name.
const maxTitleArtistLen = 50

// titleSeparator is the "Artist - Title" separator.
const titleSeparator = " - "

// descriptionPatterns are prefixes scanned in the video description when no
// better artist source is available.
var descriptionPatterns = []string{"Artist:", "Artista:", "By:", "Por:"}

// trailingGroup matches one trailing parenthesized or bracketed group.
var trailingGroup = regexp.MustCompile(`\s*[(\[][^()\[\]]*[)\]]\s*$`)

// titleNoise decides whether a trailing parenthetical is boilerplate
// ("(Official Video)", "[HD]") rather than part of the song title.
var titleNoise = regexp.MustCompile(`(?i)\b(official|video|audio|lyrics?|visuali[sz]er|m/?v|hd|4k)\b`)

// DefaultBoilerplate returns the default channel-suffix tokens stripped from
// artist candidates. The list is data, not behavior: callers may replace it
// through the Normalizer constructor.
func DefaultBoilerplate() []string {
	return []string{
		"- Topic",
		"Topic",
		"VEVO",
		"Official YouTube Channel",
		"Official Channel",
		"Official Music Video",
		"Official Video",
		"Official Audio",
		"(Official)",
		"Official",
	}
}

// Normalizer derives clean (artist, title) metadata from raw extractor
// fields.
//
// Normalize is deterministic and pure: no I/O, no external calls. It prefers
// Latin/romaji artist spellings when the primary candidate is written in a
// CJK or Hangul script and an alternative exists elsewhere in the metadata.
//
// Example:
//
//	n := metadata.NewNormalizer(nil)
//	meta := n.Normalize(metadata.Raw{
//	    Title:    "Queen - Bohemian Rhapsody (Official Video)",
//	    Uploader: "Queen Official",
//	})
//	// meta.Artist = "Queen", meta.Title = "Bohemian Rhapsody"
type Normalizer struct {
	boilerplate []string
}

// NewNormalizer creates a Normalizer with the given boilerplate token list.
// A nil or empty list selects DefaultBoilerplate. Tokens are applied
// longest-first so that compound tokens win over their fragments.
func NewNormalizer(boilerplate []string) *Normalizer {
	if len(boilerplate) == 0 {
		boilerplate = DefaultBoilerplate()
	}
	tokens := make([]string, len(boilerplate))
	copy(tokens, boilerplate)
	sort.Slice(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	return &Normalizer{boilerplate: tokens}
}

// Normalize derives TrackMetadata from raw extractor fields.
//
// Artist source priority:
//  1. the artist/creator fields,
//  2. a Latin "Artist - Title" split of the track/alt_title fields when the
//     primary candidate is non-Latin,
//  3. an "Artist - Title" split of the title,
//  4. description patterns like "Artist:",
//  5. the uploader/channel name.
//
// Channel boilerplate ("VEVO", "Official Channel", "- Topic", ...) is
// stripped from the artist case-insensitively at string boundaries only.
// If cleanup would empty a field, the unprocessed raw value is reused.
func (n *Normalizer) Normalize(raw Raw) model.TrackMetadata {
	artist, title := n.deriveArtistTitle(raw)

	meta := model.TrackMetadata{
		Artist:   artist,
		Title:    title,
		Album:    n.deriveAlbum(raw, title),
		Year:     deriveYear(raw),
		Duration: int(raw.Duration),
		Genre:    "Music",
	}
	return meta
}

func (n *Normalizer) deriveArtistTitle(raw Raw) (string, string) {
	artist := firstNonEmpty(raw.Artist, raw.Creator)

	// The artist/creator field may be in the original script; track and
	// alt_title often carry a romanized "Artist - Title" rendering.
	if artist != "" && ContainsNonLatin(artist) {
		for _, alt := range []string{raw.Track, raw.AltTitle} {
			if cand, _, ok := splitArtistTitle(alt); ok && !ContainsNonLatin(cand) {
				artist = cand
				break
			}
		}
	}

	title := strings.TrimSpace(raw.Title)
	if artist == "" {
		if cand, rest, ok := splitArtistTitle(raw.Title); ok && utf8.RuneCountInString(cand) < maxTitleArtistLen {
			artist = cand
			title = rest
		}
	}

	if artist == "" || ContainsNonLatin(artist) {
		if cand := artistFromDescription(raw.Description); cand != "" {
			artist = cand
		}
	}

	if artist == "" {
		artist = firstNonEmpty(raw.Uploader, raw.Channel)
	}

	cleanedArtist := n.CleanArtist(artist)
	if cleanedArtist == "" {
		// Fail soft: reuse the unprocessed raw value rather than emit an
		// empty artist.
		cleanedArtist = strings.TrimSpace(artist)
	}
	if cleanedArtist == "" {
		cleanedArtist = strings.TrimSpace(firstNonEmpty(raw.Uploader, raw.Channel))
	}
	if cleanedArtist == "" {
		cleanedArtist = "Unknown Artist"
	}

	cleanedTitle := CleanTitle(title)
	if cleanedTitle == "" {
		cleanedTitle = strings.TrimSpace(raw.Title)
	}
	if cleanedTitle == "" {
		cleanedTitle = "Unknown Title"
	}

	return cleanedArtist, cleanedTitle
}

// CleanArtist strips known channel boilerplate tokens from an artist
// candidate.
//
// Tokens are matched case-insensitively and removed only at the end of the
// string, repeatedly, so "Queen Official" and "QueenVEVO" become "Queen"
// while names that merely contain a token ("The Vevotones", "Topicana")
// are left alone.
func (n *Normalizer) CleanArtist(artist string) string {
	name := strings.TrimSpace(artist)
	for {
		trimmed := name
		for _, token := range n.boilerplate {
			if cut, ok := foldSuffixIndex(trimmed, token); ok && cut > 0 {
				trimmed = strings.TrimSpace(trimmed[:cut])
				break
			}
		}
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}

// foldSuffixIndex reports whether s ends with token under Unicode case
// folding and returns the byte offset where that suffix starts. The offset
// is found by walking whole runes back from the end, so it stays valid even
// when case mapping changes a rune's encoded length.
func foldSuffixIndex(s, token string) (int, bool) {
	cut := len(s)
	for range token {
		r, size := utf8.DecodeLastRuneInString(s[:cut])
		if size == 0 || (r == utf8.RuneError && size == 1) {
			return 0, false
		}
		cut -= size
	}
	return cut, strings.EqualFold(s[cut:], token)
}

// CleanTitle removes trailing parenthetical or bracketed boilerplate like
// "(Official Video)" or "[HD]" from a title. Meaningful parentheticals such
// as "(Live at Wembley)" are kept.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for {
		loc := trailingGroup.FindStringIndex(title)
		if loc == nil {
			return title
		}
		group := title[loc[0]:loc[1]]
		if !titleNoise.MatchString(group) {
			return title
		}
		title = strings.TrimSpace(title[:loc[0]])
	}
}

func (n *Normalizer) deriveAlbum(raw Raw, title string) string {
	if album := strings.TrimSpace(raw.Album); album != "" {
		return album
	}
	for _, pattern := range []string{"Album:", "Álbum:"} {
		if cand := valueAfterPattern(raw.Description, pattern); cand != "" {
			return cand
		}
	}
	return title
}

func deriveYear(raw Raw) int {
	if raw.ReleaseYear > 0 {
		return raw.ReleaseYear
	}
	if len(raw.UploadDate) >= 4 {
		if year, err := strconv.Atoi(raw.UploadDate[:4]); err == nil {
			return year
		}
	}
	return 0
}

// splitArtistTitle splits s on the first "Artist - Title" separator.
func splitArtistTitle(s string) (artist, title string, ok bool) {
	artist, title, found := strings.Cut(s, titleSeparator)
	if !found {
		return "", "", false
	}
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}

// artistFromDescription scans description lines for patterns like
// "Artist: Name" and returns the first Latin candidate.
func artistFromDescription(description string) string {
	for _, pattern := range descriptionPatterns {
		cand := valueAfterPattern(description, pattern)
		if cand != "" && !ContainsNonLatin(cand) {
			return cand
		}
	}
	return ""
}

// valueAfterPattern extracts the value following pattern on its line,
// cutting at bullet separators.
func valueAfterPattern(text, pattern string) string {
	for _, line := range strings.Split(text, "\n") {
		_, after, found := strings.Cut(line, pattern)
		if !found {
			continue
		}
		value, _, _ := strings.Cut(after, "•")
		return strings.TrimSpace(value)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
