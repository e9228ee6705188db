package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"30s","b":1000000000}`), &v))
	assert.Equal(t, 30*time.Second, v.A.Std())
	assert.Equal(t, time.Second, v.B.Std())

	require.Error(t, json.Unmarshal([]byte(`{"a":"soon"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(300 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, `"300ms"`, string(b))
}

func TestDuration_TextAndEnv(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m")))
	assert.Equal(t, 2*time.Minute, d.Std())

	require.NoError(t, d.SetValue(" 1500 "))
	assert.Equal(t, 1500*time.Nanosecond, d.Std())

	require.Error(t, d.SetValue("x"))
}
