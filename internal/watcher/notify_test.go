package watcher

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAlert(t *testing.T) {
	tests := []struct {
		name  string
		alert Alert
		want  string
	}{
		{
			name:  "with time",
			alert: Alert{Level: "critical", Title: "Stress pattern: Withdrawal", Message: "Now identified", Time: time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)},
			want:  "15:04:05 [critical] Stress pattern: Withdrawal: Now identified",
		},
		{
			name:  "zero time",
			alert: Alert{Level: "info", Title: "Progress", Message: "1 → 2 of 43 answered"},
			want:  "[info] Progress: 1 → 2 of 43 answered",
		},
		{
			name:  "empty fields",
			alert: Alert{},
			want:  "[] : ",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAlert(tc.alert))
		})
	}
}

func TestNotifier_WritesToOut(t *testing.T) {
	var buf bytes.Buffer
	n := Notifier{Out: &buf}

	require.NoError(t, n.Notify(Alert{Level: "warning", Title: "Trait shift: Openness", Message: "5 → 8 (+3)"}))
	require.NoError(t, n.Notify(Alert{Level: "info", Title: "Progress", Message: "x"}))
	assert.Equal(t, "[warning] Trait shift: Openness: 5 → 8 (+3)\n[info] Progress: x\n", buf.String())
}
