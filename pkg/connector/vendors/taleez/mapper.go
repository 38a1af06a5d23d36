package taleez

import "github.com/yass1337/hrflow-connectors/pkg/mapping"

// jobSlots maps a Taleez job into a canonical job. Timestamps arrive as
// epoch seconds; dateCreation is required by the vendor schema and fails the
// record when missing.
var jobSlots = []mapping.Slot{
	{Kind: mapping.KindDirect, Source: "id", Target: "reference", Required: true},
	{Kind: mapping.KindDirect, Source: "label", Target: "name"},
	{Kind: mapping.KindDirect, Source: "url", Target: "url"},
	{Kind: mapping.KindDirect, Source: "jobDescription", Target: "summary"},
	{Kind: mapping.KindDirect, Source: "dateCreation", Target: "created_at", Required: true, Convert: mapping.DateConvert},
	{Kind: mapping.KindDirect, Source: "dateLastPublish", Target: "updated_at", Convert: mapping.DateConvert},

	{
		Kind:       mapping.KindLocation,
		TextSource: "city",
		LatSource:  "lat",
		LngSource:  "lng",
	},

	{Kind: mapping.KindSection, Name: "job_description", Source: "jobDescription"},
	{Kind: mapping.KindSection, Name: "profile_description", Source: "profileDescription"},
	{Kind: mapping.KindSection, Name: "company_description", Source: "companyDescription"},

	{Kind: mapping.KindTag, Name: "contract", Source: "contract"},
	{Kind: mapping.KindTag, Name: "profile", Source: "profile"},
	{Kind: mapping.KindTag, Name: "contract_length", Source: "contractLength"},
	{Kind: mapping.KindTag, Name: "current_status", Source: "currentStatus"},
	{Kind: mapping.KindTag, Name: "url_applying", Source: "urlApplying"},
	{Kind: mapping.KindTag, Name: "company_label", Source: "companyLabel"},
}
