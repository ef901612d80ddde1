package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"3s"`, want: 3 * time.Second},
		{name: "nanoseconds", in: `1500000000`, want: 1500 * time.Millisecond},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestTime_UnmarshalJSON_AcceptsServerLayouts(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	for _, in := range []string{
		`"2024-03-01T10:30:00Z"`,
		`"2024-03-01T10:30:00"`,
		`"2024-03-01T10:30:00.000"`,
		`"2024-03-01 10:30:00"`,
	} {
		var ts Time
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.True(t, want.Equal(ts.Time), "%s parsed as %s", in, ts.Time)
	}
}

func TestTime_NullAndEmptyAreZero(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTime_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewTime(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:30:00Z"`, string(b))

	b, err = json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}

func TestFormatLocal(t *testing.T) {
	assert.Equal(t, "2024-03-01T10:30:00", FormatLocal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}
