package constants

const (
	// UsersCollection is the collection/table holding account documents.
	UsersCollection = "users"
)
