// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strings"
)

// Quality selects the interpolation used by Resampler.
type Quality int

const (
	// QualityCubic is 4-point Catmull-Rom interpolation without filtering.
	QualityCubic Quality = iota
	// QualityFast is a 16-tap windowed sinc.
	QualityFast
	// QualityMedium is a 32-tap windowed sinc.
	QualityMedium
	// QualityBest is a 64-tap windowed sinc.
	QualityBest
)

var qualityNames = map[Quality]string{
	QualityCubic:  "cubic",
	QualityFast:   "fast",
	QualityMedium: "medium",
	QualityBest:   "best",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Taps is the number of input frames each output frame is computed from.
func (q Quality) Taps() int {
	switch q {
	case QualityCubic:
		return 4
	case QualityFast:
		return 16
	case QualityBest:
		return 64
	default:
		return 32
	}
}

// ParseQuality maps a configuration name to a Quality.
func ParseQuality(s string) (Quality, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for q, n := range qualityNames {
		if n == name {
			return q, nil
		}
	}
	return QualityMedium, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}
