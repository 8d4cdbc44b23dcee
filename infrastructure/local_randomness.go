package infrastructure

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"meltyfi/domain/entities"

	"github.com/google/uuid"
)

// LocalRandomnessSource is an in-process randomness oracle. It mimics the
// two-phase contract of an external oracle: RequestRandom returns a handle
// immediately and the value only becomes readable after the fulfillment
// delay elapses.
type LocalRandomnessSource struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]localDraw
}

type localDraw struct {
	value   int64
	readyAt time.Time
}

// NewLocalRandomnessSource creates a local oracle with the given fulfillment
// delay. A zero delay fulfills requests instantly.
func NewLocalRandomnessSource(delay time.Duration) *LocalRandomnessSource {
	return &LocalRandomnessSource{
		delay:   delay,
		pending: make(map[string]localDraw),
	}
}

// RequestRandom draws a value from crypto/rand and stores it under a fresh
// handle. The value stays hidden until the fulfillment delay passes.
func (s *LocalRandomnessSource) RequestRandom(ctx context.Context) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to draw randomness: %w", err)
	}

	// Mask the sign bit so downstream modulo arithmetic stays non-negative
	value := int64(binary.BigEndian.Uint64(buf[:]) & (1<<63 - 1))
	handle := uuid.New().String()

	s.mu.Lock()
	s.pending[handle] = localDraw{
		value:   value,
		readyAt: time.Now().Add(s.delay),
	}
	s.mu.Unlock()

	return handle, nil
}

// Fulfilled reports whether the value behind a handle is readable yet
func (s *LocalRandomnessSource) Fulfilled(ctx context.Context, handle string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw, ok := s.pending[handle]
	if !ok {
		return false, fmt.Errorf("unknown randomness handle %s: %w", handle, entities.ErrNotFound)
	}

	return !time.Now().Before(draw.readyAt), nil
}

// Value returns the drawn value for a fulfilled handle
func (s *LocalRandomnessSource) Value(ctx context.Context, handle string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw, ok := s.pending[handle]
	if !ok {
		return 0, fmt.Errorf("unknown randomness handle %s: %w", handle, entities.ErrNotFound)
	}
	if time.Now().Before(draw.readyAt) {
		return 0, entities.ErrRandomnessNotReady
	}

	return draw.value, nil
}
