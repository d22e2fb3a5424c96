// Package interchange reads and writes the JSON backup format. The
// document nests only the forward direction of the object graph
// (employee -> completed work -> work type); back-references are rebuilt
// by the import reconciliation, so no cycle handling is needed.
package interchange

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"payrolltracker/internal/domain/payroll"
)

var ErrEmptyDocument = errors.New("document is empty or has no employees")

type WorkTypeRecord struct {
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	HourlyRate   float64  `json:"hourlyRate"`
	StrategyKind string   `json:"strategyKind"`
	BonusPercent *float64 `json:"bonusPercent,omitempty"`
}

type CompletedWorkRecord struct {
	Hours    float64         `json:"hours"`
	WorkType *WorkTypeRecord `json:"workType,omitempty"`
}

type EmployeeRecord struct {
	LastName       string                `json:"lastName"`
	FirstName      string                `json:"firstName"`
	Position       string                `json:"position"`
	CompletedWorks []CompletedWorkRecord `json:"completedWorks"`
}

// Encode serializes employees into the backup document.
func Encode(employees []payroll.Employee) ([]byte, error) {
	records := make([]EmployeeRecord, 0, len(employees))
	for _, e := range employees {
		record := EmployeeRecord{
			LastName:       e.LastName,
			FirstName:      e.FirstName,
			Position:       e.Position,
			CompletedWorks: []CompletedWorkRecord{},
		}
		for _, cw := range e.CompletedWorks {
			record.CompletedWorks = append(record.CompletedWorks, CompletedWorkRecord{
				Hours:    cw.Hours,
				WorkType: workTypeRecord(cw.WorkType),
			})
		}
		records = append(records, record)
	}
	return json.MarshalIndent(records, "", "  ")
}

// EncodeWorkTypes serializes the catalog alone, the shape the Works tab
// of the original application backed up.
func EncodeWorkTypes(workTypes []payroll.WorkType) ([]byte, error) {
	records := make([]WorkTypeRecord, 0, len(workTypes))
	for i := range workTypes {
		records = append(records, *workTypeRecord(&workTypes[i]))
	}
	return json.MarshalIndent(records, "", "  ")
}

// Decode parses a backup document into snapshot employees ready for
// reconciliation. A document with no employees is rejected before any
// store work happens.
func Decode(data []byte) ([]payroll.Employee, error) {
	var records []EmployeeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDocument
	}

	employees := make([]payroll.Employee, 0, len(records))
	for _, record := range records {
		e := payroll.Employee{
			LastName:  record.LastName,
			FirstName: record.FirstName,
			Position:  record.Position,
		}
		for _, cw := range record.CompletedWorks {
			work := payroll.CompletedWork{Hours: cw.Hours}
			if cw.WorkType != nil {
				var bonus float64
				if cw.WorkType.BonusPercent != nil {
					bonus = *cw.WorkType.BonusPercent
				}
				work.WorkType = &payroll.WorkType{
					Category:     cw.WorkType.Type,
					Description:  cw.WorkType.Description,
					HourlyRate:   cw.WorkType.HourlyRate,
					StrategyKind: cw.WorkType.StrategyKind,
					BonusPercent: bonus,
				}
			}
			e.CompletedWorks = append(e.CompletedWorks, work)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func workTypeRecord(wt *payroll.WorkType) *WorkTypeRecord {
	if wt == nil {
		return nil
	}
	bonus := wt.BonusPercent
	return &WorkTypeRecord{
		Type:         wt.Category,
		Description:  wt.Description,
		HourlyRate:   wt.HourlyRate,
		StrategyKind: wt.StrategyKind,
		BonusPercent: &bonus,
	}
}
