package service

import (
	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/repository"
)

// Repos bundles the repositories of one connection or transaction.
type Repos struct {
	Tracks     repository.TrackRepo
	ScopeNodes repository.ScopeNodeRepo
	Tasks      repository.TaskRepo
	Reports    repository.ReportRepo
	KPIEntries repository.KPIEntryRepo
	TrackKPIs  repository.TrackKPIRepo
	Penalties  repository.PenaltyRepo
	Records    repository.RecordRepo
}

// NewSQLiteRepos builds every SQLite repository on q. Inside a unit of work
// pass the transaction so all reads and writes share it.
func NewSQLiteRepos(q db.DBTX) Repos {
	return Repos{
		Tracks:     repository.NewSQLiteTrackRepo(q),
		ScopeNodes: repository.NewSQLiteScopeNodeRepo(q),
		Tasks:      repository.NewSQLiteTaskRepo(q),
		Reports:    repository.NewSQLiteReportRepo(q),
		KPIEntries: repository.NewSQLiteKPIEntryRepo(q),
		TrackKPIs:  repository.NewSQLiteTrackKPIRepo(q),
		Penalties:  repository.NewSQLitePenaltyRepo(q),
		Records:    repository.NewSQLiteRecordRepo(q),
	}
}
