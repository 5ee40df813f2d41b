package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mtlprog/contacts/internal/database"
	"github.com/mtlprog/contacts/internal/domain"
	"github.com/mtlprog/contacts/internal/repository"
)

type unavailable struct{}

func (unavailable) Collection(string) (*mongo.Collection, error) {
	return nil, domain.ErrDatabaseUnavailable
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := repository.ParseID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = repository.ParseID("not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestContactRepository_Unavailable(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewContactRepository(unavailable{})
	id := primitive.NewObjectID().Hex()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, domain.ErrDatabaseUnavailable)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrDatabaseUnavailable)

	_, err = repo.Create(ctx, domain.Contact{"name": "Ada"})
	assert.ErrorIs(t, err, domain.ErrDatabaseUnavailable)

	_, err = repo.Replace(ctx, id, domain.Contact{"name": "Ada"})
	assert.ErrorIs(t, err, domain.ErrDatabaseUnavailable)

	assert.ErrorIs(t, repo.Delete(ctx, id), domain.ErrDatabaseUnavailable)
}

func TestContactRepository_InvalidIDBeforeDatabase(t *testing.T) {
	repo := repository.NewContactRepository(unavailable{})

	_, err := repo.GetByID(context.Background(), "xyz")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

// ContactRepositoryTestSuite runs against a live MongoDB.
type ContactRepositoryTestSuite struct {
	suite.Suite
	db   *database.DB
	repo *repository.ContactRepository
}

func (s *ContactRepositoryTestSuite) SetupSuite() {
	s.db = database.New(database.Options{
		URI:            os.Getenv("MONGO_TEST_URI"),
		Database:       "contacts_test",
		ConnectTimeout: 5 * time.Second,
	})
	s.db.Connect(context.Background())

	status := s.db.Wait(context.Background())
	s.Require().Equal(database.StateConnected, status.State, "connect error: %v", status.Err)

	s.repo = repository.NewContactRepository(s.db)
}

func (s *ContactRepositoryTestSuite) SetupTest() {
	coll, err := s.db.Collection(repository.ContactsCollection)
	s.Require().NoError(err)
	_, err = coll.DeleteMany(context.Background(), bson.D{})
	s.Require().NoError(err)
}

func (s *ContactRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close(context.Background())
	}
}

func TestContactRepositorySuite(t *testing.T) {
	if os.Getenv("MONGO_TEST_URI") == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	suite.Run(t, new(ContactRepositoryTestSuite))
}

func (s *ContactRepositoryTestSuite) TestCreateAndGet() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, domain.Contact{
		"_id":   "client-chosen",
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
		"age":   json.Number("36"),
		"tags":  []any{"math", "engines"},
	})
	s.Require().NoError(err)

	id, ok := created[domain.IDField].(primitive.ObjectID)
	s.Require().True(ok, "server must assign an ObjectID")

	got, err := s.repo.GetByID(ctx, id.Hex())
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", got["name"])
	s.Equal("ada@example.com", got["email"])
	s.EqualValues(36, got["age"])
	s.Equal(id, got[domain.IDField])
}

func (s *ContactRepositoryTestSuite) TestList() {
	ctx := context.Background()

	list, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)

	_, err = s.repo.Create(ctx, domain.Contact{"name": "first"})
	s.Require().NoError(err)
	_, err = s.repo.Create(ctx, domain.Contact{"name": "second"})
	s.Require().NoError(err)

	list, err = s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *ContactRepositoryTestSuite) TestReplace() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, domain.Contact{"name": "old", "phone": "123"})
	s.Require().NoError(err)
	id := created[domain.IDField].(primitive.ObjectID).Hex()

	replaced, err := s.repo.Replace(ctx, id, domain.Contact{"name": "new"})
	s.Require().NoError(err)
	s.Equal("new", replaced["name"])

	got, err := s.repo.GetByID(ctx, id)
	s.Require().NoError(err)
	s.Equal("new", got["name"])
	s.NotContains(got, "phone")

	_, err = s.repo.Replace(ctx, primitive.NewObjectID().Hex(), domain.Contact{"name": "x"})
	s.ErrorIs(err, domain.ErrContactNotFound)
}

func (s *ContactRepositoryTestSuite) TestDelete() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, domain.Contact{"name": "gone"})
	s.Require().NoError(err)
	id := created[domain.IDField].(primitive.ObjectID).Hex()

	s.Require().NoError(s.repo.Delete(ctx, id))

	_, err = s.repo.GetByID(ctx, id)
	s.ErrorIs(err, domain.ErrContactNotFound)
	s.ErrorIs(s.repo.Delete(ctx, id), domain.ErrContactNotFound)
}
