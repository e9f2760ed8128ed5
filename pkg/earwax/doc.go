// ABOUTME: Package earwax decodes audio files to PCM chunks
// ABOUTME: Session-oriented API with exact rational timestamps
// Package earwax opens audio files and streams and decodes them to
// interleaved signed 16-bit little-endian stereo PCM.
//
// A Session owns one decoding context. Chunks are pulled one at a time with
// Next, each carrying an exact Timestamp expressed in the stream time base:
//
//	s, err := earwax.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	for {
//		chunk, err := s.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		process(chunk.Data, chunk.Time)
//	}
//
// Chunk.Data aliases the session's decode buffer. It is valid until the next
// call to Next, SeekPTS, Seek or Close on the same session. Use Chunk.Copy to
// keep the bytes for longer.
//
// A Session is not safe for concurrent use. The process-wide log level set
// with SetLogLevel applies to every session.
package earwax
