package constants

const (
	// RTICollection is the collection/table holding RTI request documents.
	RTICollection = "rti"
)
