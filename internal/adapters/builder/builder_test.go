package builder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBuildCapturesImageID(t *testing.T) {
	stream := strings.Join([]string{
		`{"stream":"Step 1/8 : FROM python:3.11-slim\n"}`,
		`{"aux":{"ID":"sha256:deadbeef"}}`,
		`{"stream":"Successfully built deadbeef\n"}`,
	}, "\n")

	var out bytes.Buffer
	id, err := streamBuild(&out, strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "sha256:deadbeef", id)
	assert.Contains(t, out.String(), "FROM python:3.11-slim")
}

func TestStreamBuildClassifiesInstallFailure(t *testing.T) {
	stream := `{"errorDetail":{"code":1,"message":"The command '/bin/sh -c pip install --no-cache-dir -r requirements.txt' returned a non-zero code: 1"},"error":"The command '/bin/sh -c pip install --no-cache-dir -r requirements.txt' returned a non-zero code: 1"}`

	var out bytes.Buffer
	_, err := streamBuild(&out, strings.NewReader(stream))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependencyInstall)
}

func TestStreamBuildReportsDaemonError(t *testing.T) {
	stream := `{"errorDetail":{"message":"pull access denied for nosuch/base"},"error":"pull access denied for nosuch/base"}`

	var out bytes.Buffer
	_, err := streamBuild(&out, strings.NewReader(stream))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildFailed)
	assert.Contains(t, err.Error(), "pull access denied")
}
