package ports

import "github.com/aalvaropc/sympactl/internal/domain"

// ReportStore persists batch reports for auditing.
type ReportStore interface {
	SaveReport(report domain.BatchReport) (id string, err error)
}
