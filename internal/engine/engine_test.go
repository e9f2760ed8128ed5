// ABOUTME: Tests for the decoding engine
// ABOUTME: Tests lifecycle pairing, open status codes, chunk iteration, seeking and HTTP sources
package engine

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Sendspin/earwax-go/internal/testutil"
	"github.com/Sendspin/earwax-go/pkg/audio/decode"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openWAV(t *testing.T, w testutil.WAV) *Context {
	t.Helper()
	ctx, err := Open(testutil.WriteWAV(t, "fixture.wav", w))
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	return ctx
}

func TestInitializeShutdownCycles(t *testing.T) {
	for i := 0; i < 3; i++ {
		Initialize()
		Initialize()
		assert.True(t, Initialized(), "cycle %d", i)

		Shutdown()
		assert.False(t, Initialized(), "cycle %d", i)

		// Extra shutdowns are harmless
		Shutdown()
		assert.False(t, Initialized(), "cycle %d", i)
	}
}

func TestShutdownWaitsForLiveContexts(t *testing.T) {
	path := testutil.WriteWAV(t, "live.wav", testutil.WAV{Frames: 10})

	Initialize()
	ctx, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, LiveContexts())

	Shutdown()
	assert.True(t, Initialized(), "state must survive while a context is live")

	ctx.Release()
	assert.Equal(t, 0, LiveContexts())

	Shutdown()
	assert.False(t, Initialized())
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	textFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("just some text"), 0o644))

	fakeMP3 := filepath.Join(dir, "fake.mp3")
	require.NoError(t, os.WriteFile(fakeMP3, []byte("no frames in here"), 0o644))

	adpcm := testutil.WAV{Frames: 4}.Bytes()
	adpcm[20] = 0x02
	adpcmFile := filepath.Join(dir, "adpcm.wav")
	require.NoError(t, os.WriteFile(adpcmFile, adpcm, 0o644))

	noData := testutil.WAV{Frames: 4}.Bytes()[:36]
	noDataFile := filepath.Join(dir, "nodata.wav")
	require.NoError(t, os.WriteFile(noDataFile, noData, 0o644))

	tests := []struct {
		name     string
		path     string
		expected Status
	}{
		{"nonexistent", filepath.Join(dir, "missing.flac"), StatusIOError},
		{"directory", dir, StatusIOError},
		{"unknown format", textFile, StatusIOError},
		{"no audio stream", noDataFile, StatusAudioStreamNotFound},
		{"unsupported encoding", adpcmFile, StatusDecoderNotFound},
		{"undecodable", fakeMP3, StatusUnableToOpenDecoder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := Open(tt.path)
			require.Error(t, err)
			assert.Nil(t, ctx)

			var openErr *OpenError
			require.ErrorAs(t, err, &openErr)
			assert.Equal(t, tt.expected, openErr.Status)
			assert.Equal(t, tt.path, openErr.Path)
			assert.Equal(t, 0, LiveContexts())
		})
	}
}

func TestOpenError_Message(t *testing.T) {
	err := &OpenError{Status: StatusDecoderNotFound, Path: "a.wav", Err: decode.ErrUnsupportedEncoding}
	assert.Equal(t, "a.wav: decoder not found: unsupported encoding", err.Error())
	assert.ErrorIs(t, err, decode.ErrUnsupportedEncoding)
	assert.Equal(t, "status 7", Status(7).String())
}

func TestContext_Info(t *testing.T) {
	ctx := openWAV(t, testutil.WAV{SampleRate: 8000, Channels: 1, Frames: 16000})

	info := ctx.Info()
	assert.Equal(t, decode.CodecWAV, info.Codec)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, int64(16000), info.Duration)
	assert.Equal(t, int64(1), info.TimeBaseNum)
	assert.Equal(t, int64(8000), info.TimeBaseDen)
}

func TestContext_NextUntilEOF(t *testing.T) {
	ctx := openWAV(t, testutil.WAV{Frames: 3000})

	var pts []int64
	total := 0
	for {
		data, p, err := ctx.Next()
		if errors.Is(err, io.EOF) {
			assert.Nil(t, data)
			break
		}
		require.NoError(t, err)
		pts = append(pts, p)
		total += len(data)
	}

	assert.Equal(t, []int64{0, 1024, 2048}, pts)
	assert.Equal(t, 3000*4, total)

	// Exhaustion is sticky
	_, _, err := ctx.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestContext_NextReusesBuffer(t *testing.T) {
	ctx := openWAV(t, testutil.WAV{Frames: 4096})

	first, _, err := ctx.Next()
	require.NoError(t, err)
	// High byte of the left sample: 0x00 for frame 0, 0x04 for frame 1024
	firstValue := first[1]

	second, _, err := ctx.Next()
	require.NoError(t, err)

	assert.Same(t, &first[0], &second[0], "chunks alias the context buffer")
	assert.NotEqual(t, firstValue, first[1], "previous chunk is overwritten")
}

func TestContext_SeekClamps(t *testing.T) {
	ctx := openWAV(t, testutil.WAV{SampleRate: 1000, Frames: 10000})

	require.NoError(t, ctx.Seek(-100))
	_, pts, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pts)

	require.NoError(t, ctx.Seek(7321))
	_, pts, err = ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(7321), pts)

	require.NoError(t, ctx.Seek(1<<40))
	_, _, err = ctx.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestContext_ReleaseTwice(t *testing.T) {
	ctx, err := Open(testutil.WriteWAV(t, "twice.wav", testutil.WAV{Frames: 10}))
	require.NoError(t, err)
	require.Equal(t, 1, LiveContexts())

	ctx.Release()
	ctx.Release()
	assert.Equal(t, 0, LiveContexts())
}

func TestOpen_HTTP(t *testing.T) {
	body := testutil.WAV{SampleRate: 1000, Frames: 2000}.Bytes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	Initialize()
	defer Shutdown()

	ctx, err := Open(srv.URL + "/stream")
	require.NoError(t, err)
	defer ctx.Release()

	assert.Equal(t, decode.CodecWAV, ctx.Info().Codec)
	assert.Equal(t, int64(2000), ctx.Info().Duration)

	_, pts, err := ctx.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pts)

	// HTTP bodies are forward only
	assert.ErrorIs(t, ctx.Seek(10), decode.ErrNotSeekable)

	_, err = Open(srv.URL + "/missing.wav")
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, StatusIOError, openErr.Status)
}

func TestOpen_HTTPRequiresInitialize(t *testing.T) {
	require.False(t, Initialized())

	_, err := Open("http://127.0.0.1:1/never.mp3")
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, StatusIOError, openErr.Status)
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestContentTypeExt(t *testing.T) {
	assert.Equal(t, ".mp3", contentTypeExt("audio/mpeg"))
	assert.Equal(t, ".flac", contentTypeExt("audio/flac; charset=binary"))
	assert.Equal(t, ".wav", contentTypeExt("audio/x-wav"))
	assert.Equal(t, "", contentTypeExt("text/html"))
	assert.Equal(t, "", contentTypeExt(""))
}
