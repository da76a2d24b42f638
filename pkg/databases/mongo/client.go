package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avinassh/rtiman/config"
	"github.com/avinassh/rtiman/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
	logger           interfaces.Logger
}

// NewMongoDB returns an interface for a db client and an error if one occurs.
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
		logger:           logger,
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// It initializes the MongoDB client and sets the database instance.
// The DSN should be in the format "mongodb://<host>:<port>/<database>".
// The function extracts the database name from the DSN and sets it as the active database for the client.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	// Validate the DSN format
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	// Set a timeout for the connection
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	// Set the server API options if provided
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	// Connect to the MongoDB server
	var err error
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Check if the connection is successful by pinging the server
	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %v", err)
	}
	m.logger.Info("Connected to MongoDB server")

	// Extract the database name from the DSN
	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %v", err)
	}

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
// It checks if the client is not nil before attempting to disconnect.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	m.logger.Debug("MongoDBClient disconnecting")
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// InsertOne inserts a document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	// Sanitize document; avoid logging document contents, they may carry credentials
	sanitizedDocument := m.sanitizeDocument(document)
	if sanitizedDocument == nil {
		return nil, fmt.Errorf("MongoDBClient: Document could not be sanitized for insert into %s", collectionName)
	}
	m.logger.Debug("Inserting one document", "collection", collectionName)

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %w", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// It decodes the result into the provided variable. A missing document surfaces
// as mongo.ErrNoDocuments so callers can map it to their own not-found semantics.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	m.logger.Debug("Finding one document", "collection", collectionName)

	err := m.db.Collection(collectionName).FindOne(ctx, m.sanitizeFilter(filter)).Decode(result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %w", collectionName, err)
	}

	return nil
}

// FindMany retrieves multiple documents from the specified collection.
// It returns a slice of matching documents or an error.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document) ([]interfaces.Document, error) {
	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	m.logger.Debug("Finding many documents", "collection", collectionName)

	cursor, err := m.db.Collection(collectionName).Find(ctx, m.sanitizeFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Finding many in %s failed: %w", collectionName, err)
	}

	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Failed to close cursor", "collection", collectionName, "error", err)
		}
	}()

	var results []interfaces.Document
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("MongoDBClient: Failed to decode cursor: %w", err)
		}
		results = append(results, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("MongoDBClient: Cursor error while reading %s: %w", collectionName, err)
	}

	return results, nil
}

// UpdateOne writes the given fields to the single document matching the filter.
// The fields are wrapped in a $set update, so a filter carrying a version guard
// plus the returned modified count gives callers a compare-and-swap primitive.
func (m *MongoDBClient) UpdateOne(ctx context.Context, collectionName string, filter interfaces.Document, fields interfaces.Document) (int64, error) {
	if !m.validCollections[collectionName] {
		return 0, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	sanitizedFields := m.sanitizeDocument(fields)
	if sanitizedFields == nil {
		return 0, fmt.Errorf("MongoDBClient: Update fields could not be sanitized for %s", collectionName)
	}
	m.logger.Debug("Updating one document", "collection", collectionName)

	res, err := m.db.Collection(collectionName).UpdateOne(ctx, m.sanitizeFilter(filter), bson.M{"$set": sanitizedFields})
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed updating one in %s: %w", collectionName, err)
	}

	return res.ModifiedCount, nil
}

// DeleteOne removes a single document from the specified collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteOne(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	if !m.validCollections[collectionName] {
		return 0, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	m.logger.Debug("Deleting one document", "collection", collectionName)

	res, err := m.db.Collection(collectionName).DeleteOne(ctx, m.sanitizeFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed deleting one from %s: %w", collectionName, err)
	}

	return res.DeletedCount, nil
}

// DeleteMany removes multiple documents from a collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteMany(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	if !m.validCollections[collectionName] {
		return 0, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	m.logger.Debug("Deleting many documents", "collection", collectionName)

	res, err := m.db.Collection(collectionName).DeleteMany(ctx, m.sanitizeFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed deleting many from %s: %w", collectionName, err)
	}

	return res.DeletedCount, nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// EnsureSchema creates the required index on the specified collection using the provided mongo.IndexModel.
// If the collection does not exist, it will be created automatically.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	if schema == nil {
		return fmt.Errorf("EnsureSchema expects schema to be a mongo.IndexModel")
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	collection := m.db.Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, model)
	return err
}

// sanitizeDocument ensures that a document does not smuggle operators or
// unknown fields into the store. The ID field is dropped, keys must appear in
// the configured field allowlist, and keys carrying Mongo operator characters
// are skipped to prevent NoSQL injection.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) map[string]interface{} {
	docMap := asMap(document)
	if docMap == nil {
		m.logger.Warn("Document is not a map, cannot sanitize")
		return nil
	}

	sanitized := make(map[string]interface{})
	for key, value := range docMap {
		// Skip the ID field to prevent overwriting or exposing it
		if key == IDFIELD {
			continue
		}

		if _, ok := m.validFields[key]; !ok || strings.ContainsAny(key, "$.") {
			m.logger.Warn("Skipping invalid or unsafe field name", "field", key)
			continue
		}

		sanitized[key] = value
	}

	return sanitized
}

// sanitizeFilter applies the field allowlist to a query filter but keeps the
// ID field, which legitimate lookups need.
func (m *MongoDBClient) sanitizeFilter(filter interfaces.Document) map[string]interface{} {
	filterMap := asMap(filter)
	if filterMap == nil {
		return map[string]interface{}{}
	}

	sanitized := make(map[string]interface{})
	for key, value := range filterMap {
		if key == IDFIELD {
			sanitized[key] = value
			continue
		}
		if _, ok := m.validFields[key]; !ok || strings.ContainsAny(key, "$.") {
			m.logger.Warn("Skipping invalid or unsafe filter field", "field", key)
			continue
		}
		sanitized[key] = value
	}

	return sanitized
}

// asMap normalizes the map shapes repositories hand us. bson.M is a distinct
// named type, so a bare map assertion would miss it.
func asMap(document interfaces.Document) map[string]interface{} {
	switch doc := document.(type) {
	case nil:
		return nil
	case bson.M:
		return doc
	case map[string]interface{}:
		return doc
	default:
		return nil
	}
}
