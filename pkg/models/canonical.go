// Package models defines the data model shared by every connector: raw
// vendor records, canonical jobs and profiles, page cursors and write
// outcomes.
package models

// Location is a canonical geographic location. Lat and Lng stay nil when the
// vendor did not provide usable coordinates.
type Location struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Section is a titled block of long-form text on a job, with HTML already
// stripped from the description.
type Section struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tag is a named scalar annotation. Names are unique per record within a
// vendor namespace prefix.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RangeDate captures a named date interval on a job.
type RangeDate struct {
	Name     string `json:"name"`
	ValueMin string `json:"value_min"`
	ValueMax string `json:"value_max"`
}

// RangeFloat captures a named numeric interval on a job, such as a salary
// band.
type RangeFloat struct {
	Name     string  `json:"name"`
	ValueMin float64 `json:"value_min"`
	ValueMax float64 `json:"value_max"`
	Unit     string  `json:"unit,omitempty"`
}

// Job is the canonical representation of a vendor job posting.
type Job struct {
	// Reference is the stable vendor identifier. It is required on every
	// canonical job.
	Reference string `json:"reference"`

	Name      string    `json:"name"`
	Summary   string    `json:"summary,omitempty"`
	URL       string    `json:"url,omitempty"`
	Location  *Location `json:"location,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	UpdatedAt string    `json:"updated_at,omitempty"`

	Sections    []Section    `json:"sections,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	RangesDate  []RangeDate  `json:"ranges_date,omitempty"`
	RangesFloat []RangeFloat `json:"ranges_float,omitempty"`
}

// ProfileURL is a typed link attached to a profile (portfolio, linkedin, ...).
type ProfileURL struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ProfileInfo holds a profile's identity and contact details.
type ProfileInfo struct {
	FullName  string       `json:"full_name,omitempty"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	DateBirth string       `json:"date_birth,omitempty"`
	Location  *Location    `json:"location,omitempty"`
	URLs      []ProfileURL `json:"urls,omitempty"`
}

// Experience is a single work history entry on a profile.
type Experience struct {
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    *Location `json:"location,omitempty"`
	DateStart   string    `json:"date_start,omitempty"`
	DateEnd     string    `json:"date_end,omitempty"`
	Description string    `json:"description,omitempty"`
	Skills      []Skill   `json:"skills,omitempty"`
}

// Education is a single education history entry on a profile.
type Education struct {
	Title       string `json:"title,omitempty"`
	School      string `json:"school,omitempty"`
	DateStart   string `json:"date_start,omitempty"`
	DateEnd     string `json:"date_end,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named skill with an optional proficiency value.
type Skill struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// Attachment is a document attached to a profile, typically a resume.
type Attachment struct {
	Type      string `json:"type,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	PublicURL string `json:"public_url,omitempty"`
}

// Profile is the canonical representation of a candidate profile.
type Profile struct {
	// Reference is the stable identifier in the hub. Required.
	Reference string `json:"reference"`

	Info        ProfileInfo  `json:"info"`
	Text        string       `json:"text,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Skills      []Skill      `json:"skills,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}
