package fetch

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/hitoshi/gator/internal/model"
)

var intervalPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h)$`)

var intervalUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// ParseInterval は "500ms"、"10s"、"1m"、"2h" の形式の集約間隔を解析する。
// 単位の組み合わせや0、小数は受け付けない。
func ParseInterval(s string) (time.Duration, error) {
	m := intervalPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, model.NewInvalidDurationError(s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, model.NewInvalidDurationError(s)
	}

	unit := intervalUnits[m[2]]
	if n > int64(time.Duration(1<<63-1)/unit) {
		return 0, model.NewInvalidDurationError(s)
	}

	return time.Duration(n) * unit, nil
}

// FormatInterval は間隔を "1h2m3s"、"2m3s"、"3s" の形式で表す。
// 1秒未満の端数は切り捨てるため、500msは "0s" になる。
func FormatInterval(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
