package domain

// Contact is a schemaless contact document exactly as stored.
// The "_id" key holds the database-assigned identifier.
type Contact map[string]any

// IDField is the document key holding the contact identifier.
const IDField = "_id"

// WithoutID returns a copy of the contact with the identifier removed,
// suitable for inserting or replacing a document body.
func (c Contact) WithoutID() Contact {
	out := make(Contact, len(c))
	for k, v := range c {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
