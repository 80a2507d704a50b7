package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) ObjectStorage {
	t.Helper()
	s, err := NewObjectStorage(&config.Config{Storage: config.StorageConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "k",
		SecretKey: "s",
		Bucket:    "attachments",
		Region:    "us-east-1",
		URLExpiry: 30 * time.Second,
	}})
	require.NoError(t, err)
	return s
}

func TestPresignGet(t *testing.T) {
	s := newTestStorage(t)
	assert.True(t, s.Enabled())

	raw, err := s.PresignGet(t.Context(), "complaints/abc/file.pdf", "invoice.pdf")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Path, "/attachments/complaints/abc/file.pdf"))
	assert.Equal(t, "30", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, `attachment; filename="invoice.pdf"`, u.Query().Get("response-content-disposition"))
}

func TestDisabledStorage(t *testing.T) {
	s, err := NewObjectStorage(&config.Config{})
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.EnsureBucket(t.Context()))

	err = s.Put(t.Context(), "k", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, models.ErrStorageDisabled)

	_, err = s.PresignGet(t.Context(), "k", "")
	assert.ErrorIs(t, err, models.ErrStorageDisabled)
}
