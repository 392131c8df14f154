package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler passes the first numerator events out of every
// denominator-sized window. A zero ratio disables sampling entirely.
type ratioSampler struct {
	mu     sync.Mutex
	num    int
	den    int
	cursor int
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the sampling ratio and restarts the window.
func (s *ratioSampler) Set(num, den int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if num <= 0 || den <= 0 {
		s.num, s.den, s.cursor = 0, 0, 0
		return
	}
	if num > den {
		num = den
	}
	s.num = num
	s.den = den
	s.cursor = 0
}

// Allow reports whether the current event falls inside the sampled part
// of the window.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.num <= 0 || s.den <= 0 {
		return true
	}
	s.cursor++
	if s.cursor > s.den {
		s.cursor = 1
	}
	return s.cursor <= s.num
}

// parseRatioSpec reads "n/m" or a bare "m" (meaning 1/m). Malformed or
// non-positive specs come back as 0,0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil {
			return n, d
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
