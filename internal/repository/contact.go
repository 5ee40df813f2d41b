package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mtlprog/contacts/internal/domain"
)

// ContactsCollection is the collection holding contact documents.
const ContactsCollection = "contacts"

// CollectionProvider resolves collections on the current connection.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

// ContactRepository handles database operations for contacts.
type ContactRepository struct {
	db CollectionProvider
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db CollectionProvider) *ContactRepository {
	return &ContactRepository{db: db}
}

// ParseID converts a hex string into a contact identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

// List returns all contacts in insertion order.
func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	coll, err := r.db.Collection(ContactsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(docs))
	for _, doc := range docs {
		contacts = append(contacts, domain.Contact(doc))
	}
	return contacts, nil
}

// GetByID retrieves a contact by ID.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (domain.Contact, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.db.Collection(ContactsCollection)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{domain.IDField: oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact %s: %w", id, err)
	}

	return domain.Contact(doc), nil
}

// Create inserts a contact and returns it with the assigned ID.
// Any client-supplied ID is ignored.
func (r *ContactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	coll, err := r.db.Collection(ContactsCollection)
	if err != nil {
		return nil, err
	}

	doc := contact.WithoutID()
	doc[domain.IDField] = primitive.NewObjectID()

	if _, err := coll.InsertOne(ctx, bson.M(doc)); err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	return doc, nil
}

// Replace overwrites the body of an existing contact, keeping its ID.
func (r *ContactRepository) Replace(ctx context.Context, id string, contact domain.Contact) (domain.Contact, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.db.Collection(ContactsCollection)
	if err != nil {
		return nil, err
	}

	doc := contact.WithoutID()
	res, err := coll.ReplaceOne(ctx, bson.M{domain.IDField: oid}, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("replace contact %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrContactNotFound
	}

	doc[domain.IDField] = oid
	return doc, nil
}

// Delete removes a contact by ID.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	coll, err := r.db.Collection(ContactsCollection)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{domain.IDField: oid})
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}
