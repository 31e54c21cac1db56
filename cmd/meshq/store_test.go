package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want storeLocation
	}{
		{"meshes", storeLocation{scheme: "file", path: "meshes"}},
		{"/data/out", storeLocation{scheme: "file", path: "/data/out"}},
		{"file:///data/out", storeLocation{scheme: "file", path: "/data/out"}},
		{"s3://scans", storeLocation{scheme: "s3", bucket: "scans"}},
		{"s3://scans/raw/2024", storeLocation{scheme: "s3", bucket: "scans", prefix: "raw/2024/"}},
		{"minio://localhost:9000/scans", storeLocation{scheme: "minio", endpoint: "localhost:9000", bucket: "scans"}},
		{"minio://localhost:9000/scans/out/", storeLocation{scheme: "minio", endpoint: "localhost:9000", bucket: "scans", prefix: "out/"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, raw := range []string{"s3://", "minio://localhost:9000", "gs://bucket/x"} {
		_, err := parseLocation(raw)
		assert.Error(t, err, raw)
	}
}
