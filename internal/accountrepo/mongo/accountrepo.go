package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avinassh/rtiman/internal/accountrepo/constants"
	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/avinassh/rtiman/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MAXLENGTH_USERNAME = 64 // Maximum length for username
)

// mongoAccount is the wire shape of an account document.
type mongoAccount struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
	Credits  int64              `bson:"credits"`
	Version  int64              `bson:"version"`
}

// MongoAccountRepository implements AccountRepository using the generic DBClient.
type MongoAccountRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoAccountRepository creates a new MongoDB repository instance.
func NewMongoAccountRepository(dbClient interfaces.DBClient) (interfaces.AccountRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	// Ensure the dbClient is actually the Mongo implementation
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoAccountRepository{dbClient: dbClient}, nil
}

// AddAccount saves a new account to MongoDB via DBClient.
func (r *MongoAccountRepository) AddAccount(ctx context.Context, account models.Account) (string, error) {
	doc := bson.M{
		"username": account.Username,
		"password": account.Password,
		"credits":  account.Credits,
		"version":  account.Version,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if strings.Contains(err.Error(), "E11000 duplicate key error") { // MongoDB specific duplicate key error check
			return "", fmt.Errorf("username '%s' already exists", account.Username)
		}
		return "", fmt.Errorf("failed to add account to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetAccountByUsername retrieves an account from MongoDB via DBClient.
// Returns (nil, nil) when no account carries the username.
func (r *MongoAccountRepository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	if len(username) == 0 || len(username) > MAXLENGTH_USERNAME {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", MAXLENGTH_USERNAME)
	}

	var doc mongoAccount
	filter := bson.M{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &doc)
	if err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by username from MongoDB: %w", err)
	}

	return &models.Account{
		ID:       doc.ID.Hex(),
		Username: doc.Username,
		Password: doc.Password,
		Credits:  doc.Credits,
		Version:  doc.Version,
	}, nil
}

// ConditionalSave writes the account's credits if the stored version still
// matches expectedVersion, bumping the version in the same update. A zero
// modified count means another writer won the race.
func (r *MongoAccountRepository) ConditionalSave(ctx context.Context, account *models.Account, expectedVersion int64) (bool, error) {
	filter := bson.M{
		"username": account.Username,
		"version":  expectedVersion,
	}
	fields := bson.M{
		"credits": account.Credits,
		"version": expectedVersion + 1,
	}

	modified, err := r.dbClient.UpdateOne(ctx, constants.UsersCollection, filter, fields)
	if err != nil {
		return false, fmt.Errorf("failed to save account to MongoDB: %w", err)
	}
	if modified == 0 {
		return false, nil
	}

	account.Version = expectedVersion + 1
	return true, nil
}

// EnsureIndices creates the unique username index in MongoDB.
func (r *MongoAccountRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoAccountRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
