package metadata

import "testing"

func TestNormalize_ArtistTitleSeparator(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name       string
		raw        Raw
		wantArtist string
		wantTitle  string
	}{
		{
			name:       "separator in title",
			raw:        Raw{Title: "Daft Punk - Harder Better Faster Stronger", Uploader: "some channel"},
			wantArtist: "Daft Punk",
			wantTitle:  "Harder Better Faster Stronger",
		},
		{
			name:       "official video suffix stripped",
			raw:        Raw{Title: "Queen - Bohemian Rhapsody (Official Video)", Uploader: "Queen Official"},
			wantArtist: "Queen",
			wantTitle:  "Bohemian Rhapsody",
		},
		{
			name:       "no separator falls back to uploader",
			raw:        Raw{Title: "Bohemian Rhapsody", Uploader: "Queen Official"},
			wantArtist: "Queen",
			wantTitle:  "Bohemian Rhapsody",
		},
		{
			name:       "artist field wins over title split",
			raw:        Raw{Title: "Some Compilation - Part 3", Artist: "Aphex Twin"},
			wantArtist: "Aphex Twin",
			wantTitle:  "Some Compilation - Part 3",
		},
		{
			name:       "meaningful parenthetical kept",
			raw:        Raw{Title: "Queen - Love of My Life (Live at Wembley)", Uploader: "Queen"},
			wantArtist: "Queen",
			wantTitle:  "Love of My Life (Live at Wembley)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			if got.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", got.Artist, tt.wantArtist)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestCleanArtist(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		input string
		want  string
	}{
		{"Queen Official", "Queen"},
		{"QueenVEVO", "Queen"},
		{"Queen - Topic", "Queen"},
		{"Rammstein Official Channel", "Rammstein"},
		{"Sia Official YouTube Channel", "Sia"},
		{"Kasabian (Official)", "Kasabian"},
		// Tokens inside otherwise meaningful names must survive.
		{"The Vevotones", "The Vevotones"},
		{"Topicana", "Topicana"},
		{"Officially Dead", "Officially Dead"},
		// Stacked boilerplate is removed token by token.
		{"Muse Official Channel Official", "Muse"},
		{"Plain Artist", "Plain Artist"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := n.CleanArtist(tt.input); got != tt.want {
				t.Errorf("CleanArtist(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanArtist_CustomTokens(t *testing.T) {
	n := NewNormalizer([]string{"Records"})

	if got := n.CleanArtist("Warp Records"); got != "Warp" {
		t.Errorf("CleanArtist() = %q, want %q", got, "Warp")
	}
	// The default tokens don't apply when a custom list is given.
	if got := n.CleanArtist("QueenVEVO"); got != "QueenVEVO" {
		t.Errorf("CleanArtist() = %q, want %q", got, "QueenVEVO")
	}
}

func TestCleanArtist_FoldedSuffixLength(t *testing.T) {
	// U+212A (Kelvin sign) case-folds to "k" but is three bytes long, so the
	// matched suffix is longer than the token itself. Slicing by the token's
	// byte length here used to cut through the middle of the rune.
	n := NewNormalizer([]string{"Kelvin"})

	if got := n.CleanArtist("Lab Kelvin"); got != "Lab" {
		t.Errorf("CleanArtist() = %q, want %q", got, "Lab")
	}
	if got := n.CleanArtist("Kelvin"); got != "Kelvin" {
		t.Errorf("CleanArtist() on a token-only name = %q, want it untouched", got)
	}
}

func TestFoldSuffixIndex(t *testing.T) {
	tests := []struct {
		s, token string
		wantCut  int
		wantOK   bool
	}{
		{"QueenVEVO", "vevo", 5, true},
		{"Queen", "vevo", 1, false},
		{"ab", "abc", 0, false},
		{"Lab Kelvin", "Kelvin", 4, true},
	}
	for _, tt := range tests {
		cut, ok := foldSuffixIndex(tt.s, tt.token)
		if ok != tt.wantOK || (ok && cut != tt.wantCut) {
			t.Errorf("foldSuffixIndex(%q, %q) = (%d, %v), want (%d, %v)",
				tt.s, tt.token, cut, ok, tt.wantCut, tt.wantOK)
		}
	}
}

func TestNormalize_ScriptPreference(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("latin alternative from track field", func(t *testing.T) {
		got := n.Normalize(Raw{
			Title:  "アイドル",
			Artist: "ヨルシカ",
			Track:  "Yorushika - Idol",
		})
		if got.Artist != "Yorushika" {
			t.Errorf("Artist = %q, want %q", got.Artist, "Yorushika")
		}
	})

	t.Run("latin alternative from description", func(t *testing.T) {
		got := n.Normalize(Raw{
			Title:       "夜に駆ける",
			Artist:      "ずっと真夜中でいいのに。",
			Description: "Artist: ZUTOMAYO • Album: Hisohiso Banashi",
		})
		if got.Artist != "ZUTOMAYO" {
			t.Errorf("Artist = %q, want %q", got.Artist, "ZUTOMAYO")
		}
	})

	t.Run("no alternative keeps original script", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "夜に駆ける", Artist: "米津玄師"})
		if got.Artist != "米津玄師" {
			t.Errorf("Artist = %q, want %q", got.Artist, "米津玄師")
		}
	})
}

func TestNormalize_Fallbacks(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("boilerplate-only uploader reuses raw value", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "Song", Uploader: "VEVO"})
		if got.Artist != "VEVO" {
			t.Errorf("Artist = %q, want raw uploader", got.Artist)
		}
	})

	t.Run("everything empty", func(t *testing.T) {
		got := n.Normalize(Raw{})
		if got.Artist != "Unknown Artist" {
			t.Errorf("Artist = %q", got.Artist)
		}
		if got.Title != "Unknown Title" {
			t.Errorf("Title = %q", got.Title)
		}
	})
}

func TestNormalize_AlbumAndYear(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("album field", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "Song", Uploader: "Artist", Album: "A Night at the Opera"})
		if got.Album != "A Night at the Opera" {
			t.Errorf("Album = %q", got.Album)
		}
	})

	t.Run("album from description", func(t *testing.T) {
		got := n.Normalize(Raw{
			Title:       "Song",
			Uploader:    "Artist",
			Description: "Album: Discovery • Released 2001",
		})
		if got.Album != "Discovery" {
			t.Errorf("Album = %q", got.Album)
		}
	})

	t.Run("album falls back to title", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "Song", Uploader: "Artist"})
		if got.Album != "Song" {
			t.Errorf("Album = %q", got.Album)
		}
	})

	t.Run("release year preferred over upload date", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "Song", Uploader: "Artist", ReleaseYear: 1975, UploadDate: "20091001"})
		if got.Year != 1975 {
			t.Errorf("Year = %d", got.Year)
		}
	})

	t.Run("upload date year", func(t *testing.T) {
		got := n.Normalize(Raw{Title: "Song", Uploader: "Artist", UploadDate: "20091001"})
		if got.Year != 2009 {
			t.Errorf("Year = %d", got.Year)
		}
	})
}

func TestContainsNonLatin(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Queen", false},
		{"Motörhead", false},
		{"Sigur Rós", false},
		{"ヨルシカ", true},       // Katakana
		{"ひらがな", true},       // Hiragana
		{"米津玄師", true},       // Kanji
		{"방탄소년단", true},      // Hangul
		{"YOASOBI 夜に駆ける", true}, // mixed
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ContainsNonLatin(tt.input); got != tt.want {
				t.Errorf("ContainsNonLatin(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
