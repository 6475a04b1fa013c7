package broker

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timeframe is a normalized bar period.
type Timeframe struct {
	Key      string
	Duration time.Duration
}

var supportedTimeframes = map[string]Timeframe{
	"M1":  {Key: "M1", Duration: time.Minute},
	"M5":  {Key: "M5", Duration: 5 * time.Minute},
	"M15": {Key: "M15", Duration: 15 * time.Minute},
	"M30": {Key: "M30", Duration: 30 * time.Minute},
	"H1":  {Key: "H1", Duration: time.Hour},
	"H4":  {Key: "H4", Duration: 4 * time.Hour},
	"D1":  {Key: "D1", Duration: 24 * time.Hour},
	"W1":  {Key: "W1", Duration: 7 * 24 * time.Hour},
}

// ParseTimeframe returns the normalized timeframe for a key like "M15".
func ParseTimeframe(input string) (Timeframe, error) {
	key := strings.ToUpper(strings.TrimSpace(input))
	tf, ok := supportedTimeframes[key]
	if !ok {
		return Timeframe{}, fmt.Errorf("unsupported timeframe: %s", input)
	}
	return tf, nil
}

// SupportedTimeframes returns all supported keys, sorted.
func SupportedTimeframes() []string {
	keys := make([]string, 0, len(supportedTimeframes))
	for k := range supportedTimeframes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (tf Timeframe) String() string {
	return tf.Key
}
