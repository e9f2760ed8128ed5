// ABOUTME: Encoded input sources for decoding contexts
// ABOUTME: Opens local files (seekable) and HTTP URLs (forward only)
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/Sendspin/earwax-go/pkg/audio/decode"
)

// source is an open encoded input plus the bytes needed to sniff its format
type source struct {
	r      io.Reader
	closer io.Closer
	size   int64
	header []byte
	name   string
	hint   string // extension implied by a Content-Type header
}

func (s *source) close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// detect identifies the container, trusting magic bytes over names
func (s *source) detect() decode.Codec {
	codec := decode.Detect(s.header, s.name)
	if codec == decode.CodecUnknown && s.hint != "" {
		codec = decode.Detect(nil, s.hint)
	}
	return codec
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func openSource(path string) (*source, error) {
	if isURL(path) {
		return openHTTP(path)
	}
	return openFile(path)
}

func openFile(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	header := make([]byte, decode.HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind: %w", err)
	}

	return &source{
		r:      f,
		closer: f,
		size:   st.Size(),
		header: header[:n],
		name:   path,
	}, nil
}

func openHTTP(url string) (*source, error) {
	c := httpClient()
	if c == nil {
		return nil, errNotInitialized
	}

	resp, err := c.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTTP stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	br := bufio.NewReaderSize(resp.Body, 64*1024)
	// A short peek just means a tiny body; detection copes with fewer bytes
	header, _ := br.Peek(decode.HeaderSize)

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	return &source{
		r:      br,
		closer: resp.Body,
		size:   size,
		header: append([]byte(nil), header...),
		name:   url,
		hint:   contentTypeExt(resp.Header.Get("Content-Type")),
	}, nil
}

// contentTypeExt turns a response media type into a file extension hint
func contentTypeExt(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	}
	return ""
}
