package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	Kind       *Kind
	AssetIndex *uint64
	Limit      int
	Offset     int
}
