package models

// All returns every model for schema migration, ordered so that referenced
// tables are created before their dependents.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&WorkOrder{},
		&Checkpoint{},
		&Material{},
		&MaterialUsage{},
		&Vendor{},
		&Attachment{},
		&Log{},
	}
}
