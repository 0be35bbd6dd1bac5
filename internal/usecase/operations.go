package usecase

import (
	"io"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

type sliceSource struct {
	ops []domain.BatchOperation
	i   int
}

// Operations adapts pre-parsed rows (strict mode) to a BatchSource.
func Operations(ops []domain.BatchOperation) ports.BatchSource {
	return &sliceSource{ops: ops}
}

func (s *sliceSource) Next() (domain.BatchOperation, error) {
	if s.i >= len(s.ops) {
		return domain.BatchOperation{}, io.EOF
	}
	op := s.ops[s.i]
	s.i++
	return op, nil
}
