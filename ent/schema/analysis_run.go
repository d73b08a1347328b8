package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnalysisRun is one analysis of a dataset under a filter state.
type AnalysisRun struct {
	ent.Schema
}

func (AnalysisRun) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnalysisRun) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID assigned on save"),
		field.String("source").
			Comment("Path or label of the analyzed dataset"),
		field.String("fingerprint").
			Comment("SHA-256 of the dataset records"),
		field.JSON("filter", json.RawMessage{}).
			Comment("Filter state the summary was computed under"),
		field.JSON("summary", json.RawMessage{}).
			Comment("Summary statistics of the filtered records"),
		field.Int("total_items").
			Default(0),
		field.Int("flagged_count").
			Default(0),
	}
}

func (AnalysisRun) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("fingerprint"),
	}
}
