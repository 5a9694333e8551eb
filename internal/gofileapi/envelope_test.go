package gofileapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOK(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := Decode([]byte(`{"status":"ok","data":{"name":"report.txt"}}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", out.Name)
}

func TestDecodeNonOKStatus(t *testing.T) {
	var out map[string]any
	err := Decode([]byte(`{"status":"error-auth","data":{}}`), &out)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "error-auth", statusErr.Status)
}

func TestDecodeMissingData(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := Decode([]byte(`{"status":"ok"}`), &out)
	require.NoError(t, err)
	assert.Empty(t, out.Name)
}

func TestDecodeNilOut(t *testing.T) {
	require.NoError(t, Decode([]byte(`{"status":"ok","data":{"ignored":true}}`), nil))
}

func TestDecodeBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not json", "<html>502</html>"},
		{"wrong payload type", `{"status":"ok","data":"not-an-object"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				Name string `json:"name"`
			}
			err := Decode([]byte(tc.body), &out)
			require.Error(t, err)

			var statusErr *StatusError
			assert.False(t, errors.As(err, &statusErr), "decode failures must not masquerade as status errors")
		})
	}
}

func TestStatusFromBody(t *testing.T) {
	status, ok := StatusFromBody([]byte(`{"status":"error-notFound","data":{}}`))
	require.True(t, ok)
	assert.Equal(t, "error-notFound", status)

	_, ok = StatusFromBody([]byte(`<html>bad gateway</html>`))
	assert.False(t, ok)

	_, ok = StatusFromBody([]byte(`{"data":{}}`))
	assert.False(t, ok)
}
