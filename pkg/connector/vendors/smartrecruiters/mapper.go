package smartrecruiters

import "github.com/yass1337/hrflow-connectors/pkg/mapping"

// jobSlots maps a full SmartRecruiters posting into a canonical job. The
// posting reference is the only hard requirement; everything else is
// omitted when absent.
var jobSlots = []mapping.Slot{
	{Kind: mapping.KindDirect, Source: "refNumber", Target: "reference", Required: true},
	{Kind: mapping.KindDirect, Source: "title", Target: "name"},
	{Kind: mapping.KindDirect, Source: "jobAd.sections.jobDescription.text", Target: "summary"},
	{Kind: mapping.KindDirect, Source: "createdOn", Target: "created_at", Convert: mapping.DateConvert},
	{Kind: mapping.KindDirect, Source: "updatedOn", Target: "updated_at", Convert: mapping.DateConvert},

	{
		Kind:       mapping.KindLocation,
		TextSource: "location.city",
		LatSource:  "location.latitude",
		LngSource:  "location.longitude",
	},

	{
		Kind:        mapping.KindSection,
		Name:        "company_description",
		Source:      "jobAd.sections.companyDescription.text",
		TitleSource: "jobAd.sections.companyDescription.title",
	},
	{
		Kind:        mapping.KindSection,
		Name:        "job_description",
		Source:      "jobAd.sections.jobDescription.text",
		TitleSource: "jobAd.sections.jobDescription.title",
	},
	{
		Kind:        mapping.KindSection,
		Name:        "qualifications",
		Source:      "jobAd.sections.qualifications.text",
		TitleSource: "jobAd.sections.qualifications.title",
	},
	{
		Kind:        mapping.KindSection,
		Name:        "additional_information",
		Source:      "jobAd.sections.additionalInformation.text",
		TitleSource: "jobAd.sections.additionalInformation.title",
	},

	{Kind: mapping.KindTag, Name: "id", Source: "id"},
	{Kind: mapping.KindTag, Name: "status", Source: "status"},
	{Kind: mapping.KindTag, Name: "posting_status", Source: "postingStatus"},
	{Kind: mapping.KindTag, Name: "experience_level", Source: "experienceLevel.id"},
	{Kind: mapping.KindTag, Name: "type_of_employment", Source: "typeOfEmployment.id"},
	{Kind: mapping.KindTag, Name: "industry", Source: "industry.id"},
	{Kind: mapping.KindTag, Name: "function", Source: "function.id"},
	{Kind: mapping.KindTag, Name: "department", Source: "department.id"},
}
