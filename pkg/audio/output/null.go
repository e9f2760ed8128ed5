// ABOUTME: Output backend that discards audio
// ABOUTME: Used for headless decoding runs and machines without a sound device
package output

import (
	"errors"
	"sync/atomic"
)

// Null accepts samples and drops them
type Null struct {
	volumeControl
	ready   bool
	written atomic.Int64
}

// NewNull creates a discarding output
func NewNull() *Null {
	n := &Null{}
	n.init()
	return n
}

func (n *Null) Open(sampleRate, channels, bitDepth int) error {
	if sampleRate <= 0 || channels <= 0 {
		return errors.New("invalid output format")
	}
	n.ready = true
	return nil
}

func (n *Null) Write(samples []int32) error {
	if !n.ready {
		return errors.New("output not initialized")
	}
	n.written.Add(int64(len(samples)))
	return nil
}

func (n *Null) Close() error {
	n.ready = false
	return nil
}

// Written returns the number of samples accepted so far
func (n *Null) Written() int64 {
	return n.written.Load()
}
