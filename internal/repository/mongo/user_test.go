package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create returns the stored user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := repo.Create(context.Background(), &domain.NewUser{Username: "admin", PasswordHash: "hash"})
		require.NoError(mt, err)

		assert.Len(mt, user.ID, 24)
		assert.Equal(mt, "admin", user.Username)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: username_1",
		}))

		user, err := repo.Create(context.Background(), &domain.NewUser{Username: "admin", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
		assert.Nil(mt, user)
	})

	mt.Run("other write errors pass through", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := repo.Create(context.Background(), &domain.NewUser{Username: "admin", PasswordHash: "hash"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("get by username decodes the document", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "admin"},
			{Key: "password", Value: "hash"},
			{Key: "createdAt", Value: createdAt},
		}))

		user, err := repo.GetByUsername(context.Background(), "admin")
		require.NoError(mt, err)
		require.NotNil(mt, user)

		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, createdAt, user.CreatedAt)
	})

	mt.Run("get by username absent", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		user, err := repo.GetByUsername(context.Background(), "nobody")
		require.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("malformed id is absent", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		user, err := repo.GetByID(context.Background(), "not-an-object-id")
		require.NoError(mt, err)
		assert.Nil(mt, user)
	})
}
