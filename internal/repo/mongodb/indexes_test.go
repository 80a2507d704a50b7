package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates every collection index", func(mt *mtest.T) {
		for range collectionIndexes {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		assert.NoError(mt, EnsureIndexes(mt.Context(), &DB{Client: mt.Client, Database: mt.DB}))
	})

	mt.Run("create failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    85,
			Name:    "IndexOptionsConflict",
			Message: "index already exists with different options",
		}))
		err := EnsureIndexes(mt.Context(), &DB{Client: mt.Client, Database: mt.DB})
		assert.ErrorContains(mt, err, "indexes")
	})
}

func TestCollectionIndexes(t *testing.T) {
	assert.ElementsMatch(t, []string{"users", "complaints", "messages"}, keys(collectionIndexes))

	var emailUnique bool
	for _, idx := range collectionIndexes["users"] {
		if idx.Options != nil && idx.Options.Unique != nil && *idx.Options.Unique {
			emailUnique = true
		}
	}
	assert.True(t, emailUnique, "users need a unique index for duplicate registration")
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
