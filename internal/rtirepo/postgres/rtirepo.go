package postgres

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/avinassh/rtiman/internal/rtirepo/constants"
	"github.com/avinassh/rtiman/pkg/databases/postgres"
)

// rtiTableSchema is handed to EnsureSchema; DBClient has no generic DDL.
const rtiTableSchema = `
CREATE TABLE IF NOT EXISTS rti (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	summary TEXT NOT NULL,
	funds BIGINT NOT NULL,
	version BIGINT NOT NULL
)`

// PostgresRTIRepository implements RTIRequestRepository for PostgreSQL databases.
type PostgresRTIRepository struct {
	dbClient *postgres.PostgresDatabaseClient
}

// NewPostgresRTIRepository creates a new PostgreSQL repository instance.
func NewPostgresRTIRepository(dbClient interfaces.DBClient) (interfaces.RTIRequestRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	concrete, ok := dbClient.(*postgres.PostgresDatabaseClient)
	if !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresRTIRepository{dbClient: concrete}, nil
}

// AddRequest saves a new RTI request to PostgreSQL via DBClient.
func (r *PostgresRTIRepository) AddRequest(ctx context.Context, request models.RTIRequest) (string, error) {
	doc := map[string]interface{}{
		"name":    request.Name,
		"summary": request.Summary,
		"funds":   request.Funds,
		"version": request.Version,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.RTICollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add RTI request to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetRequestByID retrieves an RTI request from PostgreSQL via DBClient.
// Returns (nil, nil) when no request carries the ID.
func (r *PostgresRTIRepository) GetRequestByID(ctx context.Context, id string) (*models.RTIRequest, error) {
	if id == "" {
		return nil, nil
	}

	var request models.RTIRequest
	filter := map[string]interface{}{"id": id}
	err := r.dbClient.FindOne(ctx, constants.RTICollection, filter, &request)
	if err != nil {
		return nil, fmt.Errorf("failed to get RTI request by id from PostgreSQL: %w", err)
	}
	if request.ID == "" { // FindOne zeroes the struct when no row matched
		return nil, nil
	}
	return &request, nil
}

// ListRequests returns every RTI request in the table, decoding FindMany's
// generic row maps through mapstructure.
func (r *PostgresRTIRepository) ListRequests(ctx context.Context) ([]models.RTIRequest, error) {
	docs, err := r.dbClient.FindMany(ctx, constants.RTICollection, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to list RTI requests from PostgreSQL: %w", err)
	}

	requests := make([]models.RTIRequest, 0, len(docs))
	for _, doc := range docs {
		docMap, ok := doc.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected document type %T in RTI listing", doc)
		}

		id, _ := docMap["id"].(string)
		delete(docMap, "id")

		var request models.RTIRequest
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &request,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build RTI request decoder: %w", err)
		}
		if err := decoder.Decode(docMap); err != nil {
			return nil, fmt.Errorf("failed to decode RTI request row: %w", err)
		}
		request.ID = id

		requests = append(requests, request)
	}

	return requests, nil
}

// ConditionalSave writes the request's funds if the stored version still
// matches expectedVersion, bumping the version in the same update. A zero
// rows-affected count means another writer won the race.
func (r *PostgresRTIRepository) ConditionalSave(ctx context.Context, request *models.RTIRequest, expectedVersion int64) (bool, error) {
	filter := map[string]interface{}{
		"id":      request.ID,
		"version": expectedVersion,
	}
	fields := map[string]interface{}{
		"funds":   request.Funds,
		"version": expectedVersion + 1,
	}

	affected, err := r.dbClient.UpdateOne(ctx, constants.RTICollection, filter, fields)
	if err != nil {
		return false, fmt.Errorf("failed to save RTI request to PostgreSQL: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	request.Version = expectedVersion + 1
	return true, nil
}

// EnsureIndices creates the rti table.
func (r *PostgresRTIRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.RTICollection, rtiTableSchema)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresRTIRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
