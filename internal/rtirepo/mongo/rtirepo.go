package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/avinassh/rtiman/internal/rtirepo/constants"

	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/avinassh/rtiman/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRTIRequest is the wire shape of an RTI request document.
type mongoRTIRequest struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Summary string             `bson:"summary"`
	Funds   int64              `bson:"funds"`
	Version int64              `bson:"version"`
}

// MongoRTIRepository implements RTIRequestRepository using the generic DBClient.
type MongoRTIRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoRTIRepository creates a new MongoDB repository instance.
func NewMongoRTIRepository(dbClient interfaces.DBClient) (interfaces.RTIRequestRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoRTIRepository{dbClient: dbClient}, nil
}

// AddRequest saves a new RTI request to MongoDB via DBClient.
func (r *MongoRTIRepository) AddRequest(ctx context.Context, request models.RTIRequest) (string, error) {
	doc := bson.M{
		"name":    request.Name,
		"summary": request.Summary,
		"funds":   request.Funds,
		"version": request.Version,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.RTICollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add RTI request to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetRequestByID retrieves an RTI request from MongoDB via DBClient.
// Returns (nil, nil) for unknown or malformed IDs; funding a request that does
// not exist is a caller-facing rejection, not a store failure.
func (r *MongoRTIRepository) GetRequestByID(ctx context.Context, id string) (*models.RTIRequest, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc mongoRTIRequest
	filter := bson.M{"_id": objID}
	err = r.dbClient.FindOne(ctx, constants.RTICollection, filter, &doc)
	if err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get RTI request by id from MongoDB: %w", err)
	}

	return &models.RTIRequest{
		ID:      doc.ID.Hex(),
		Name:    doc.Name,
		Summary: doc.Summary,
		Funds:   doc.Funds,
		Version: doc.Version,
	}, nil
}

// ListRequests returns every RTI request in the collection. FindMany hands
// back generic documents, so each is decoded through mapstructure; the raw
// ObjectID is pulled out first since it only exists on the Mongo side.
func (r *MongoRTIRepository) ListRequests(ctx context.Context) ([]models.RTIRequest, error) {
	docs, err := r.dbClient.FindMany(ctx, constants.RTICollection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list RTI requests from MongoDB: %w", err)
	}

	requests := make([]models.RTIRequest, 0, len(docs))
	for _, doc := range docs {
		docMap, ok := doc.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected document type %T in RTI listing", doc)
		}

		var id string
		if rawID, ok := docMap["_id"].(primitive.ObjectID); ok {
			id = rawID.Hex()
		}
		delete(docMap, "_id")

		var request models.RTIRequest
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &request,
			WeaklyTypedInput: true, // bson numbers may come back as int32
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build RTI request decoder: %w", err)
		}
		if err := decoder.Decode(docMap); err != nil {
			return nil, fmt.Errorf("failed to decode RTI request document: %w", err)
		}
		request.ID = id

		requests = append(requests, request)
	}

	return requests, nil
}

// ConditionalSave writes the request's funds if the stored version still
// matches expectedVersion, bumping the version in the same update. A zero
// modified count means another writer won the race.
func (r *MongoRTIRepository) ConditionalSave(ctx context.Context, request *models.RTIRequest, expectedVersion int64) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(request.ID)
	if err != nil {
		return false, fmt.Errorf("malformed RTI request id %q: %w", request.ID, err)
	}

	filter := bson.M{
		"_id":     objID,
		"version": expectedVersion,
	}
	fields := bson.M{
		"funds":   request.Funds,
		"version": expectedVersion + 1,
	}

	modified, err := r.dbClient.UpdateOne(ctx, constants.RTICollection, filter, fields)
	if err != nil {
		return false, fmt.Errorf("failed to save RTI request to MongoDB: %w", err)
	}
	if modified == 0 {
		return false, nil
	}

	request.Version = expectedVersion + 1
	return true, nil
}

// EnsureIndices creates the funds index used by popularity listings.
func (r *MongoRTIRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"funds": -1},
		Options: options.Index(),
	}
	return r.dbClient.EnsureSchema(ctx, constants.RTICollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoRTIRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
