package store

// Record is one JSON-encoded entity row, keyed by feature, owner and entity id.
// Position is a per-(feature, owner) monotonic sequence; higher means newer.
type Record struct {
	Feature          string `gorm:"column:feature;primaryKey;size:64;not null"`
	OwnerID          string `gorm:"column:owner_id;primaryKey;size:190;not null"`
	EntityID         string `gorm:"column:entity_id;primaryKey;size:190;not null"`
	Position         int64  `gorm:"column:position;not null;index:idx_records_scope_position,priority:3"`
	PayloadJSON      string `gorm:"column:payload_json;type:text;not null"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Record) TableName() string {
	return "entity_records"
}
