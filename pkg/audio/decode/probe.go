// ABOUTME: Container format detection
// ABOUTME: Identifies MP3, FLAC and WAV by magic bytes with extension fallback
package decode

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Codec names a container/codec pair handled by this package
type Codec string

const (
	CodecUnknown Codec = ""
	CodecMP3     Codec = "mp3"
	CodecFLAC    Codec = "flac"
	CodecWAV     Codec = "wav"
)

// HeaderSize is the number of leading bytes Detect looks at
const HeaderSize = 12

// Detect identifies the codec from the first HeaderSize bytes of a file,
// falling back to the file extension of name
func Detect(header []byte, name string) Codec {
	switch {
	case bytes.HasPrefix(header, []byte("fLaC")):
		return CodecFLAC
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return CodecWAV
	case bytes.HasPrefix(header, []byte("ID3")):
		return CodecMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return CodecMP3
	}

	// Strip URL query strings before looking at the extension
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return CodecMP3
	case ".flac":
		return CodecFLAC
	case ".wav", ".wave":
		return CodecWAV
	}
	return CodecUnknown
}
