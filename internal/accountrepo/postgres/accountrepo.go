package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/avinassh/rtiman/internal/accountrepo/constants"
	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/avinassh/rtiman/pkg/databases/postgres"
)

// usersTableSchema is handed to EnsureSchema; DBClient has no generic DDL.
const usersTableSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	credits BIGINT NOT NULL,
	version BIGINT NOT NULL
)`

// PostgresAccountRepository implements AccountRepository for PostgreSQL databases.
type PostgresAccountRepository struct {
	dbClient *postgres.PostgresDatabaseClient
}

// NewPostgresAccountRepository creates a new PostgreSQL repository instance.
func NewPostgresAccountRepository(dbClient interfaces.DBClient) (interfaces.AccountRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	concrete, ok := dbClient.(*postgres.PostgresDatabaseClient)
	if !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresAccountRepository{dbClient: concrete}, nil
}

// AddAccount saves a new account to PostgreSQL via DBClient.
func (r *PostgresAccountRepository) AddAccount(ctx context.Context, account models.Account) (string, error) {
	doc := map[string]interface{}{
		"username": account.Username,
		"password": account.Password,
		"credits":  account.Credits,
		"version":  account.Version,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" { // unique_violation
			return "", fmt.Errorf("username '%s' already exists", account.Username)
		}
		return "", fmt.Errorf("failed to add account to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetAccountByUsername retrieves an account from PostgreSQL via DBClient.
// Returns (nil, nil) when no account carries the username.
func (r *PostgresAccountRepository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	filter := map[string]interface{}{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username from PostgreSQL: %w", err)
	}
	if account.ID == "" { // FindOne zeroes the struct when no row matched
		return nil, nil
	}
	return &account, nil
}

// ConditionalSave writes the account's credits if the stored version still
// matches expectedVersion, bumping the version in the same update. A zero
// rows-affected count means another writer won the race.
func (r *PostgresAccountRepository) ConditionalSave(ctx context.Context, account *models.Account, expectedVersion int64) (bool, error) {
	filter := map[string]interface{}{
		"username": account.Username,
		"version":  expectedVersion,
	}
	fields := map[string]interface{}{
		"credits": account.Credits,
		"version": expectedVersion + 1,
	}

	affected, err := r.dbClient.UpdateOne(ctx, constants.UsersCollection, filter, fields)
	if err != nil {
		return false, fmt.Errorf("failed to save account to PostgreSQL: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	account.Version = expectedVersion + 1
	return true, nil
}

// EnsureIndices creates the users table with its unique username constraint.
func (r *PostgresAccountRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, usersTableSchema)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresAccountRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
