package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected Date
		wantErr  bool
	}{
		{name: "nil", src: nil, expected: ""},
		{name: "time", src: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), expected: "2024-03-05"},
		{name: "bytes", src: []byte("2024-04-20"), expected: "2024-04-20"},
		{name: "datetime string", src: "2024-05-12 00:00:00", expected: "2024-05-12"},
		{name: "zero mysql date", src: "0000-00-00", expected: ""},
		{name: "garbage", src: "not a date", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := Date("2024-02-28")
	assert.Equal(t, Date("2024-03-01"), d.AddDays(2))
	assert.Equal(t, 2, d.DaysUntil("2024-03-01"))
	assert.Equal(t, -28, d.DaysUntil("2024-01-31"))
	assert.Equal(t, "28 Feb 2024", d.Display())
	assert.Equal(t, Date(""), Date("").AddDays(3))
}

func TestDate_MarshalJSON(t *testing.T) {
	payload := struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: "2024-03-05"}

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2024-03-05","unset":null}`, string(out))
}

func TestRange_Contains(t *testing.T) {
	r := Range{Start: "2024-03-05", End: "2024-03-05"}
	assert.True(t, r.Contains("2024-03-05"))
	assert.False(t, r.Contains("2024-03-06"))
	assert.False(t, r.Contains(""))
	assert.True(t, Unbounded.Contains("2024-01-01"))
}

func TestBorrowerKey(t *testing.T) {
	uid := "S9012345A"
	empty := ""
	assert.Equal(t, "uid:S9012345A", BorrowerKey(&uid, 1001))
	assert.Equal(t, "id:1001", BorrowerKey(&empty, 1001))
	assert.Equal(t, "id:1002", BorrowerKey(nil, 1002))
	assert.Equal(t, "", BorrowerKey(nil, 0))
}
