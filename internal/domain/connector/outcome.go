package connector

// ---------------------------------------------------------------------------
// ImportOutcome
// ---------------------------------------------------------------------------

// ImportStatus is the terminal state of a record import run. Failure is the
// error return, not a status: a run yields (Imported | Skipped, nil) or
// (zero, err).
type ImportStatus string

const (
	// ImportStatusImported indicates the record was created or updated.
	ImportStatusImported ImportStatus = "IMPORTED"
	// ImportStatusSkipped indicates an intentional no-op. Not an error: the
	// job completes with a note and is never retried or alerted on.
	ImportStatusSkipped ImportStatus = "SKIPPED"
)

// ImportOutcome is the three-valued result of a record import, making the
// skip-versus-failure distinction explicit at the type level.
type ImportOutcome struct {
	Status ImportStatus
	// Reason explains a skip; empty for imports.
	Reason string
}

// Imported returns a successful outcome.
func Imported() ImportOutcome {
	return ImportOutcome{Status: ImportStatusImported}
}

// Skipped returns an intentional no-op outcome with an explanatory note.
func Skipped(reason string) ImportOutcome {
	return ImportOutcome{Status: ImportStatusSkipped, Reason: reason}
}

// IsSkipped reports whether the run was an intentional no-op.
func (o ImportOutcome) IsSkipped() bool {
	return o.Status == ImportStatusSkipped
}
