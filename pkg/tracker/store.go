package tracker

import "context"

// Keys under which the tracker persists its data.
const (
	StateKey    = "rehab:state:v1"
	TemplateKey = "rehab:template:v1"
)

// Store is the string key-value store the tracker persists to. db.Database implements it.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
}
