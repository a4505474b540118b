package audio

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/zhaarey/go-mp4tag"
)

// ErrUnsupportedFormat is returned when the file extension maps to no
// known tag writer.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Tagger writes metadata tags and cover art to audio files.
//
// The tag writer is chosen by file extension:
//   - .mp3  writes ID3v2 frames
//   - .m4a  writes MP4 ilst atoms
//   - .flac writes Vorbis comments and a METADATA_BLOCK_PICTURE
//
// Example:
//
//	tagger := NewTagger(true)
//	err := tagger.SaveTags(path, meta, jpegBytes)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	modifyTags bool
}

// NewTagger creates a new Tagger. When modifyTags is false, SaveTags only
// embeds cover art and leaves text tags alone.
func NewTagger(modifyTags bool) *Tagger {
	return &Tagger{modifyTags: modifyTags}
}

// SaveTags writes metadata and optional cover art to the audio file at
// path. A nil artwork skips cover embedding.
//
// Returns ErrUnsupportedFormat for extensions other than .mp3, .m4a and
// .flac.
func (t *Tagger) SaveTags(path string, meta model.TrackMetadata, artwork []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return t.saveMP3(path, meta, artwork)
	case ".m4a":
		return t.saveM4A(path, meta, artwork)
	case ".flac":
		return t.saveFLAC(path, meta, artwork)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (t *Tagger) saveMP3(path string, meta model.TrackMetadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if t.modifyTags {
		tag.SetArtist(meta.Artist)
		tag.SetTitle(meta.Title)
		tag.SetAlbum(meta.Album)
		tag.SetGenre(meta.Genre)
		if meta.Year > 0 {
			year := strconv.Itoa(meta.Year)
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, year)
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, year)
		}
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		pic := id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    DetectImageMIME(artwork),
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		}
		tag.AddAttachedPicture(pic)
	}

	return tag.Save()
}

func (t *Tagger) saveM4A(path string, meta model.TrackMetadata, artwork []byte) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return err
	}
	defer mp4.Close()

	tags := &mp4tag.MP4Tags{}
	if t.modifyTags {
		tags.Title = meta.Title
		tags.Artist = meta.Artist
		tags.Album = meta.Album
		tags.CustomGenre = meta.Genre
		if meta.Year > 0 {
			tags.Year = int32(meta.Year)
		}
	}
	if artwork != nil {
		tags.Pictures = []*mp4tag.MP4Picture{{
			Format: imageTypeMP4(artwork),
			Data:   artwork,
		}}
	}

	return mp4.Write(tags, []string{})
}

func (t *Tagger) saveFLAC(path string, meta model.TrackMetadata, artwork []byte) error {
	file, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	if t.modifyTags {
		cmt := flacvorbis.New()
		addVorbisField(cmt, flacvorbis.FIELD_TITLE, meta.Title)
		addVorbisField(cmt, flacvorbis.FIELD_ARTIST, meta.Artist)
		addVorbisField(cmt, flacvorbis.FIELD_ALBUM, meta.Album)
		addVorbisField(cmt, "GENRE", meta.Genre)
		if meta.Year > 0 {
			addVorbisField(cmt, flacvorbis.FIELD_DATE, strconv.Itoa(meta.Year))
		}
		replaceBlock(file, flac.VorbisComment, cmt.Marshal())
	}

	if artwork != nil {
		pic, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover, "Cover", artwork, DetectImageMIME(artwork))
		if err != nil {
			return err
		}
		replaceBlock(file, flac.Picture, pic.Marshal())
	}

	return file.Save(path)
}

func addVorbisField(cmt *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value == "" {
		return
	}
	_ = cmt.Add(field, value)
}

// replaceBlock swaps the first metadata block of the given type for the
// new one, appending when none exists.
func replaceBlock(file *flac.File, typ flac.BlockType, block flac.MetaDataBlock) {
	for i, meta := range file.Meta {
		if meta.Type == typ {
			file.Meta[i] = &block
			return
		}
	}
	file.Meta = append(file.Meta, &block)
}

// DetectImageMIME sniffs the image type from the first bytes of data.
// JPEG and PNG are recognized; everything else is reported as JPEG since
// that is what the thumbnail pipeline produces.
func DetectImageMIME(data []byte) string {
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		return "image/png"
	}
	return "image/jpeg"
}

func imageTypeMP4(data []byte) mp4tag.ImageType {
	if DetectImageMIME(data) == "image/png" {
		return mp4tag.ImageTypePNG
	}
	return mp4tag.ImageTypeJPEG
}
