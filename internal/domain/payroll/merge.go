package payroll

import "math"

// HoursTolerance is the comparison slack when deciding whether two
// completed-work entries record the same hours.
const HoursTolerance = 0.001

// StagedWork is a completed-work fact queued for insertion. Employee and
// WorkType point into the batch so that rows staged for not-yet-persisted
// entities pick up their ids at commit time.
type StagedWork struct {
	Employee *Employee
	WorkType *WorkType
	Hours    float64
}

// Batch is the staged outcome of a reconciliation. It is applied to the
// store in a single transaction or not at all.
type Batch struct {
	NewEmployees []*Employee
	NewWorkTypes []*WorkType
	StagedWorks  []StagedWork
	Report       ImportReport
}

func (b *Batch) Empty() bool {
	return len(b.NewEmployees) == 0 && len(b.NewWorkTypes) == 0 && len(b.StagedWorks) == 0
}

// Reconcile merges a snapshot into the known state without creating
// duplicates. Employees match by exact (last name, first name), work types
// by exact description, and completed works by work-type description plus
// hours within HoursTolerance. Matching is checked against both persisted
// rows and rows staged earlier in the same batch, so re-running the same
// snapshot stages nothing.
//
// Existing employees must carry their completed works with work types
// resolved; they form the dedup reference sets. Snapshot entries whose
// work type has an empty description carry no usable identity and are
// dropped silently.
func Reconcile(snapshot []Employee, existing []Employee, workTypes []WorkType) *Batch {
	batch := &Batch{}

	employeesByName := make(map[nameKey]*Employee, len(existing))
	for i := range existing {
		employeesByName[nameKeyOf(existing[i])] = &existing[i]
	}

	worksByDescription := make(map[string]*WorkType, len(workTypes))
	for i := range workTypes {
		worksByDescription[workTypes[i].Description] = &workTypes[i]
	}

	for _, loaded := range snapshot {
		target, known := employeesByName[nameKeyOf(loaded)]
		if !known {
			staged := Employee{
				LastName:  loaded.LastName,
				FirstName: loaded.FirstName,
				Position:  loaded.Position,
			}
			target = &staged
			batch.NewEmployees = append(batch.NewEmployees, target)
			batch.Report.NewEmployees++
		}

		for _, imported := range loaded.CompletedWorks {
			if imported.WorkType == nil || imported.WorkType.Description == "" {
				continue
			}

			workType, ok := worksByDescription[imported.WorkType.Description]
			if !ok {
				promoted := *imported.WorkType
				promoted.ID = 0
				workType = &promoted
				worksByDescription[promoted.Description] = workType
				batch.NewWorkTypes = append(batch.NewWorkTypes, workType)
				batch.Report.NewWorkTypes++
			}

			if hasCompletedWork(target, workType.Description, imported.Hours) {
				continue
			}

			target.CompletedWorks = append(target.CompletedWorks, CompletedWork{
				Hours:    imported.Hours,
				WorkType: workType,
			})
			batch.StagedWorks = append(batch.StagedWorks, StagedWork{
				Employee: target,
				WorkType: workType,
				Hours:    imported.Hours,
			})
			batch.Report.NewCompletedWorks++
		}
	}

	return batch
}

type nameKey struct {
	last  string
	first string
}

func nameKeyOf(e Employee) nameKey {
	return nameKey{last: e.LastName, first: e.FirstName}
}

func hasCompletedWork(e *Employee, description string, hours float64) bool {
	for _, cw := range e.CompletedWorks {
		if cw.WorkType == nil {
			continue
		}
		if cw.WorkType.Description == description && math.Abs(cw.Hours-hours) < HoursTolerance {
			return true
		}
	}
	return false
}
