package ports

import "github.com/aalvaropc/sympactl/internal/domain"

// BatchSource yields batch operations in file order. It returns io.EOF when
// exhausted; any other error stops the batch.
type BatchSource interface {
	Next() (domain.BatchOperation, error)
}
