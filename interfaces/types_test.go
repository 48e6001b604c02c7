package interfaces

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerNames(t *testing.T) {
	tests := []struct {
		container Container
		name      string
		dir       string
		bucket    string
	}{
		{ContainerProduct, "PRODUCT", "product", "product-e45331f2-5941-4b35-baa0-10e01f016f1e"},
		{ContainerComment, "COMMENT", "comment", "comment-9550a615-edd0-44b0-a2ca-507d6d6f5aeb"},
		{ContainerUser, "USER", "user", "user-724c2a96-1e1b-4889-969c-f151c449f510"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.container.String())
			assert.Equal(t, tt.dir, tt.container.DirName())
			// Bucket names are part of the remote layout and must stay stable.
			assert.Equal(t, tt.bucket, tt.container.BucketName())
		})
	}
}

func TestParseContainer(t *testing.T) {
	for _, s := range []string{"PRODUCT", "product", "Product"} {
		c, err := ParseContainer(s)
		require.NoError(t, err)
		assert.Equal(t, ContainerProduct, c)
	}

	_, err := ParseContainer("WAREHOUSE")
	assert.Error(t, err)
}

func TestParseClassification(t *testing.T) {
	for _, s := range []string{"IMAGE", "image", "Image"} {
		c, err := ParseClassification(s)
		require.NoError(t, err)
		assert.Equal(t, ClassificationImage, c)
	}

	_, err := ParseClassification("SPREADSHEET")
	assert.Error(t, err)
}

func TestEnumJSON(t *testing.T) {
	data, err := json.Marshal(ContainerComment)
	require.NoError(t, err)
	assert.Equal(t, `"COMMENT"`, string(data))

	var c Container
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, ContainerComment, c)

	data, err = json.Marshal(ClassificationVideo)
	require.NoError(t, err)
	assert.Equal(t, `"VIDEO"`, string(data))

	var cl Classification
	require.NoError(t, json.Unmarshal(data, &cl))
	assert.Equal(t, ClassificationVideo, cl)

	assert.Error(t, json.Unmarshal([]byte(`"NONSENSE"`), &cl))
}
