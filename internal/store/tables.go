package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table layouts for the ent schemas in ent/schema, in the form ent's
// migrate package generates them.
var (
	// AnalysisRunsColumns holds the columns for the "analysis_runs" table.
	AnalysisRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "source", Type: field.TypeString},
		{Name: "fingerprint", Type: field.TypeString},
		{Name: "filter", Type: field.TypeJSON},
		{Name: "summary", Type: field.TypeJSON},
		{Name: "total_items", Type: field.TypeInt, Default: 0},
		{Name: "flagged_count", Type: field.TypeInt, Default: 0},
	}
	// AnalysisRunsTable holds the schema information for the "analysis_runs" table.
	AnalysisRunsTable = &schema.Table{
		Name:       "analysis_runs",
		Columns:    AnalysisRunsColumns,
		PrimaryKey: []*schema.Column{AnalysisRunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "analysisrun_sequence", Columns: []*schema.Column{AnalysisRunsColumns[1]}},
			{Name: "analysisrun_timestamp", Columns: []*schema.Column{AnalysisRunsColumns[2]}},
			{Name: "analysisrun_fingerprint", Columns: []*schema.Column{AnalysisRunsColumns[4]}},
		},
	}
	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_sequence", Columns: []*schema.Column{LlmRequestEventsColumns[1]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LlmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{LlmRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LlmRequestEventsColumns[9]}},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AnalysisRunsTable,
		LlmRequestEventsTable,
	}
)
