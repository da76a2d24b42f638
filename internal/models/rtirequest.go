package models

// RTIRequest represents a crowdfunded Right To Information request.
// Funds only ever grows, and only through the funding service; Version is the
// optimistic-concurrency token bumped by every conditional save.
type RTIRequest struct {
	ID      string `bson:"-" mapstructure:"-" db:"id"`
	Name    string `bson:"name" mapstructure:"name" db:"name"`
	Summary string `bson:"summary" mapstructure:"summary" db:"summary"`
	Funds   int64  `bson:"funds" mapstructure:"funds" db:"funds"`
	Version int64  `bson:"version" mapstructure:"version" db:"version"`
}

// NewRTIRequest creates a new RTIRequest with zero funds raised.
func NewRTIRequest(name, summary string) *RTIRequest {
	return &RTIRequest{
		Name:    name,
		Summary: summary,
		Funds:   0,
		Version: 1,
	}
}
