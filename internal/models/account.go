package models

// Account represents a registered user and their spendable credit balance.
// Credits never goes negative; Version is the optimistic-concurrency token
// bumped by every conditional save.
type Account struct {
	ID       string `bson:"-" mapstructure:"-" db:"id"`
	Username string `bson:"username" mapstructure:"username" db:"username"`
	Password string `bson:"password" mapstructure:"password" db:"password"`
	Credits  int64  `bson:"credits" mapstructure:"credits" db:"credits"`
	Version  int64  `bson:"version" mapstructure:"version" db:"version"`
}

// NewAccount creates a new Account with the given starting balance.
// The password is expected to be hashed already; no validation is performed here.
func NewAccount(username, hashedPassword string, startingCredits int64) *Account {
	return &Account{
		Username: username,
		Password: hashedPassword,
		Credits:  startingCredits,
		Version:  1,
	}
}
