package interfaces

import "context"

// Document is a generic interface to represent data that can be stored
// and retrieved from the database. It could be a struct, a map[string]interface{},
// or any type that can be marshaled/unmarshaled by the specific database driver.
type Document interface{}

// DBClient defines the interface for a generic database client.
// It abstracts common database operations across different database types (e.g., MongoDB, SQL).
type DBClient interface {
	// Connect establishes a connection to the database.
	// It takes a context for cancellation and timeouts, and a DSN (Data Source Name) string.
	// Returns an error if the connection fails.
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	// Returns an error if the disconnection fails.
	Disconnect(ctx context.Context) error

	// InsertOne inserts a single document into the specified collection/table.
	// Returns the ID of the inserted document (e.g., MongoDB ObjectID, SQL primary key) and an error.
	InsertOne(ctx context.Context, collectionName string, document Document) (interface{}, error)

	// FindOne retrieves a single document from the specified collection/table
	// that matches the provided filter. 'result' is a pointer to the variable
	// where the decoded document will be stored.
	FindOne(ctx context.Context, collectionName string, filter Document, result Document) error

	// FindMany retrieves every document from the specified collection/table
	// that matches the provided filter.
	FindMany(ctx context.Context, collectionName string, filter Document) ([]Document, error)

	// UpdateOne writes the given fields to the single document matching the filter.
	// 'fields' names the values to set; implementations translate them into the
	// store's own update syntax. The returned count is the number of documents
	// actually modified, which is how callers detect a lost compare-and-swap
	// (a version-guarded filter that matched nothing modifies zero documents).
	UpdateOne(ctx context.Context, collectionName string, filter Document, fields Document) (int64, error)

	// DeleteOne deletes a single document matching the filter and returns the
	// count of deleted documents.
	DeleteOne(ctx context.Context, collectionName string, filter Document) (int64, error)

	// DeleteMany deletes every document matching the filter and returns the
	// count of deleted documents.
	DeleteMany(ctx context.Context, collectionName string, filter Document) (int64, error)

	// EnsureSchema bootstraps collection/table level invariants (unique indices,
	// table definitions). The schema document is implementation specific: a
	// mongo.IndexModel for MongoDB, a CREATE TABLE statement for PostgreSQL.
	EnsureSchema(ctx context.Context, collectionName string, schema Document) error

	// Ping checks the health of the database connection.
	// Returns an error if the database is unreachable or unhealthy.
	Ping(ctx context.Context) error
}
