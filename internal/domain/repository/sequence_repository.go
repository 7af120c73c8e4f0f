package repository

import "context"

// SequenceRepository consecutivos atómicos por ámbito (ej. "patient:<franchise>", "invoice").
type SequenceRepository interface {
	Next(ctx context.Context, scope string) (int64, error)
}
