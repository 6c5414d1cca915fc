package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableItems    = "practice_items"
	tableSettings = "settings"
	tableEvents   = "practice_events"

	colTerm            = "term"
	colTranslation     = "translation"
	colExampleSentence = "example_sentence"
	colCurriculumID    = "curriculum_item_id"
	colCreatedAt       = "created_at"
	colCounters        = "mastery_counters"

	colName  = "name"
	colValue = "value"

	colID         = "id"
	colSequence   = "sequence"
	colTimestamp  = "timestamp"
	colSessionID  = "session_id"
	colKind       = "kind"
	colCorrect    = "correct"
	colCounterSum = "counter_sum"
	colGraduated  = "graduated"
)

var (
	// practiceItemsColumns holds the columns for the "practice_items" table.
	practiceItemsColumns = []*schema.Column{
		{Name: colTerm, Type: field.TypeString, Unique: true},
		{Name: colTranslation, Type: field.TypeString},
		{Name: colExampleSentence, Type: field.TypeString, Nullable: true},
		{Name: colCurriculumID, Type: field.TypeString, Nullable: true},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: colCounters, Type: field.TypeJSON},
	}
	practiceItemsTable = &schema.Table{
		Name:       tableItems,
		Columns:    practiceItemsColumns,
		PrimaryKey: []*schema.Column{practiceItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "practiceitem_created_at", Columns: []*schema.Column{practiceItemsColumns[4]}},
		},
	}

	// settingsColumns holds the columns for the "settings" table.
	settingsColumns = []*schema.Column{
		{Name: colName, Type: field.TypeString, Unique: true},
		{Name: colValue, Type: field.TypeString},
	}
	settingsTable = &schema.Table{
		Name:       tableSettings,
		Columns:    settingsColumns,
		PrimaryKey: []*schema.Column{settingsColumns[0]},
	}

	// practiceEventsColumns holds the columns for the "practice_events" table.
	practiceEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colSessionID, Type: field.TypeString, Nullable: true},
		{Name: colTerm, Type: field.TypeString},
		{Name: colKind, Type: field.TypeString},
		{Name: colCorrect, Type: field.TypeBool},
		{Name: colCounterSum, Type: field.TypeInt},
		{Name: colGraduated, Type: field.TypeBool, Default: false},
	}
	practiceEventsTable = &schema.Table{
		Name:       tableEvents,
		Columns:    practiceEventsColumns,
		PrimaryKey: []*schema.Column{practiceEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "practiceevent_kind", Columns: []*schema.Column{practiceEventsColumns[5]}},
			{Name: "practiceevent_term", Columns: []*schema.Column{practiceEventsColumns[4]}},
		},
	}

	tables = []*schema.Table{
		practiceItemsTable,
		settingsTable,
		practiceEventsTable,
	}
)

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
