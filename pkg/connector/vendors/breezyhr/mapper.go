package breezyhr

import "github.com/yass1337/hrflow-connectors/pkg/mapping"

// jobSlots maps a Breezy position into a canonical job. Descriptions carry
// markup and non-breaking spaces, which the section slot strips.
var jobSlots = []mapping.Slot{
	{Kind: mapping.KindDirect, Source: "_id", Target: "reference", Required: true},
	{Kind: mapping.KindDirect, Source: "name", Target: "name"},
	{Kind: mapping.KindDirect, Source: "description", Target: "summary"},
	{Kind: mapping.KindDirect, Source: "creation_date", Target: "created_at", Convert: mapping.DateConvert},
	{Kind: mapping.KindDirect, Source: "updated_date", Target: "updated_at", Convert: mapping.DateConvert},

	{
		Kind:       mapping.KindLocation,
		TextSource: "location.name",
	},

	{Kind: mapping.KindSection, Name: "description", Source: "description"},

	{Kind: mapping.KindTag, Name: "friendly_id", Source: "friendly_id"},
	{Kind: mapping.KindTag, Name: "type", Source: "type.name"},
	{Kind: mapping.KindTag, Name: "experience", Source: "experience.name"},
	{Kind: mapping.KindTag, Name: "education", Source: "education"},
	{Kind: mapping.KindTag, Name: "category", Source: "category.name"},
	{Kind: mapping.KindTag, Name: "department", Source: "department"},
	{Kind: mapping.KindTag, Name: "requisition_id", Source: "requisition_id"},
}
