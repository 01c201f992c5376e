package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromURL(t *testing.T) {
	c := &Client{bucket: "forum-images"}

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "aws virtual host", url: "https://forum-images.s3.us-east-1.amazonaws.com/covers/alice/a.png", want: "covers/alice/a.png"},
		{name: "minio path style", url: "http://localhost:9000/forum-images/covers/a.png", want: "covers/a.png"},
		{name: "other bucket", url: "http://localhost:9000/elsewhere/covers/a.png", wantErr: true},
		{name: "external host", url: "https://example.com/a.png", wantErr: true},
		{name: "bucket root", url: "https://forum-images.s3.eu-west-1.amazonaws.com/", wantErr: true},
		{name: "not a url", url: "covers/a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := c.keyFromURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}
