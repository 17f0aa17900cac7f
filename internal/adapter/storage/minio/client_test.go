package minio

import (
	"testing"

	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	c := &Client{bucketName: "photos", publicURL: "http://cdn.local:9000", logger: logger.Discard()}
	assert.Equal(t, "http://cdn.local:9000/photos/photos/abc.jpg", c.ObjectURL("photos/abc.jpg"))
}
