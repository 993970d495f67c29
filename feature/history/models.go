package history

import (
	"time"

	"license-auditor/core/reconcile"
)

// RunRecord is the persisted summary of one audit run.
type RunRecord struct {
	ID            string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	LicenseSource string    `gorm:"column:license_source;type:varchar(512)" json:"license_source"`
	ObjectsSource string    `gorm:"column:objects_source;type:varchar(512)" json:"objects_source"`
	Sheet         string    `gorm:"column:sheet;type:varchar(255)" json:"sheet"`
	Ranges        int       `gorm:"column:ranges" json:"ranges"`
	TotalObjects  int       `gorm:"column:total_objects" json:"total_objects"`
	Licensed      int       `gorm:"column:licensed" json:"licensed"`
	Checked       int       `gorm:"column:checked" json:"checked"`
	Covered       int       `gorm:"column:covered" json:"covered"`
	Violations    int       `gorm:"column:violations" json:"violations"`
	Artifact      string    `gorm:"column:artifact;type:varchar(1024)" json:"artifact,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	Items []ViolationRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName overrides the table name used by RunRecord.
func (RunRecord) TableName() string {
	return "audit_runs"
}

// ViolationRecord is one uncovered object of a run.
type ViolationRecord struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"-"`
	RunID      string `gorm:"column:run_id;type:varchar(36);index;not null" json:"-"`
	Position   int    `gorm:"column:position" json:"-"`
	ObjectType string `gorm:"column:object_type;type:varchar(32)" json:"object_type"`
	ObjectID   int64  `gorm:"column:object_id" json:"object_id"`
	Name       string `gorm:"column:name;type:varchar(255)" json:"name"`
}

// TableName overrides the table name used by ViolationRecord.
func (ViolationRecord) TableName() string {
	return "audit_violations"
}

// Run describes a finished audit to be recorded.
type Run struct {
	ID            string
	LicenseSource string
	ObjectsSource string
	Sheet         string
	Result        reconcile.Result
	Artifact      string
	// StartedAt defaults to the time the run is saved.
	StartedAt time.Time
}

func newRunRecord(run Run) RunRecord {
	s := run.Result.Summary
	record := RunRecord{
		ID:            run.ID,
		LicenseSource: run.LicenseSource,
		ObjectsSource: run.ObjectsSource,
		Sheet:         run.Sheet,
		Ranges:        s.Ranges,
		TotalObjects:  s.TotalObjects,
		Licensed:      s.Licensed,
		Checked:       s.Checked,
		Covered:       s.Covered,
		Violations:    s.Violations,
		Artifact:      run.Artifact,
		CreatedAt:     run.StartedAt,
		Items:         make([]ViolationRecord, 0, len(run.Result.Violations)),
	}
	for i, v := range run.Result.Violations {
		record.Items = append(record.Items, ViolationRecord{
			RunID:      run.ID,
			Position:   i,
			ObjectType: v.ObjectType.String(),
			ObjectID:   v.ID,
			Name:       v.Name,
		})
	}
	return record
}
