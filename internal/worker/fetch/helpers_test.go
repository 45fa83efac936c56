package fetch

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/gator/internal/metrics"
)

// newTestLogger はテスト用のJSONロガーを生成する。
func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// logEntries はJSONログをパースして返す。
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("ログのパースに失敗: %v\nline: %s", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func newTestMetrics() (*metrics.Collector, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return metrics.NewCollector(reg), reg
}

// counterValue は指定ラベルのカウンタ値を返す。存在しない場合は0。
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metricLoop
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

// mockGuard はURLGuardのテスト用モック。
// httptestサーバー（127.0.0.1）に到達できるよう通常のクライアントを返す。
type mockGuard struct {
	validateErr error
}

func (m *mockGuard) ValidateURL(_ string) error {
	return m.validateErr
}

func (m *mockGuard) NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
