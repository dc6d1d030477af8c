package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeJSON(t *testing.T) {
	type report struct {
		Pattern string `json:"pattern"`
		Reads   uint64 `json:"reads"`
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, report{Pattern: "stride", Reads: 25}))
	require.Equal(t, "{\"pattern\":\"stride\",\"reads\":25}\n", buf.String())

	var got report
	require.NoError(t, DecodeJSON(&buf, &got))
	require.Equal(t, report{Pattern: "stride", Reads: 25}, got)
}

func TestDecodeJSONInvalid(t *testing.T) {
	var v map[string]any
	require.Error(t, DecodeJSON(strings.NewReader("{"), &v))
}
