package keys

// Schema maps one entity kind onto the table. Each kind has its own
// implementation; the repositories call them directly.
type Schema[T any] interface {
	TableName() string
	PartitionKeyOf(entity T) string
	SortKeyOf(entity T) string
}
