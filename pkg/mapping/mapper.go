package mapping

import (
	"fmt"
	"strconv"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// Kind selects how a slot extracts and places a value.
type Kind int

const (
	// KindDirect copies one raw field into one canonical field.
	KindDirect Kind = iota
	// KindLocation assembles a canonical location from text and
	// coordinate paths.
	KindLocation
	// KindTag derives a named tag from one raw field.
	KindTag
	// KindSection derives a titled section from one raw long-text field,
	// stripping HTML from the description.
	KindSection
)

// Convert optionally transforms the raw value before placement. Returning an
// error fails the slot the same way a missing required field does.
type Convert func(v interface{}) (interface{}, error)

// Slot is one row of a mapping table.
type Slot struct {
	Kind   Kind
	Source string // dotted path into the raw record

	// Target names the canonical field for direct slots: reference, name,
	// summary, url, created_at, updated_at.
	Target string

	// Name labels tag and section slots. Tags get the vendor namespace
	// prefix; duplicate tag names within one record are dropped.
	Name string

	// Location slots read these paths instead of Source.
	TextSource string
	LatSource  string
	LngSource  string

	// Section slots read the title from here; Source carries the
	// description.
	TitleSource string

	// Required slots fail the whole record when the value is absent.
	// Optional slots are silently omitted.
	Required bool

	Convert Convert
}

// JobMapper turns raw vendor records into canonical jobs through a slot
// table. It is pure: no I/O, no mutation of the input.
type JobMapper struct {
	// Vendor is the namespace prefix for derived tags ("taleez" yields
	// tag names like "taleez_contract").
	Vendor string

	Slots []Slot
}

// ToCanonical maps one raw record into a canonical job. A missing required
// field or a failed conversion returns a mapping error carrying the field
// path; optional absent fields are omitted without error.
func (m *JobMapper) ToCanonical(raw models.Raw) (*models.Job, error) {
	job := &models.Job{}
	seenTags := make(map[string]bool)

	for _, slot := range m.Slots {
		switch slot.Kind {
		case KindDirect:
			if err := m.applyDirect(raw, slot, job); err != nil {
				return nil, err
			}
		case KindLocation:
			m.applyLocation(raw, slot, job)
		case KindTag:
			if err := m.applyTag(raw, slot, job, seenTags); err != nil {
				return nil, err
			}
		case KindSection:
			m.applySection(raw, slot, job)
		}
	}

	if job.Reference == "" {
		return nil, errors.New(errors.ErrorTypeMapping, "record has no reference").
			WithDetail("vendor", m.Vendor)
	}

	return job, nil
}

func (m *JobMapper) applyDirect(raw models.Raw, slot Slot, job *models.Job) error {
	v, ok := raw.Get(slot.Source)
	if !ok || v == nil {
		if slot.Required {
			return m.missing(slot.Source)
		}
		return nil
	}

	if slot.Convert != nil {
		converted, err := slot.Convert(v)
		if err != nil {
			// Unparseable optional values are dropped, not fatal. Only a
			// required field may fail the record.
			if slot.Required {
				return errors.Wrap(err, errors.ErrorTypeMapping, "conversion failed").
					WithDetail("field", slot.Source).
					WithDetail("vendor", m.Vendor)
			}
			return nil
		}
		v = converted
	}

	s, ok := toString(v)
	if !ok {
		if slot.Required {
			return m.missing(slot.Source)
		}
		return nil
	}

	switch slot.Target {
	case "reference":
		job.Reference = s
	case "name":
		job.Name = s
	case "summary":
		job.Summary = StripHTML(s)
	case "url":
		job.URL = s
	case "created_at":
		job.CreatedAt = s
	case "updated_at":
		job.UpdatedAt = s
	default:
		return errors.New(errors.ErrorTypeMapping, fmt.Sprintf("unknown direct target %q", slot.Target))
	}
	return nil
}

func (m *JobMapper) applyLocation(raw models.Raw, slot Slot, job *models.Job) {
	loc := &models.Location{}
	populated := false

	if text, ok := raw.GetString(slot.TextSource); ok && text != "" {
		loc.Text = text
		populated = true
	}
	if slot.LatSource != "" {
		if lat, ok := raw.GetFloat(slot.LatSource); ok {
			loc.Lat = &lat
			populated = true
		}
	}
	if slot.LngSource != "" {
		if lng, ok := raw.GetFloat(slot.LngSource); ok {
			loc.Lng = &lng
			populated = true
		}
	}

	if populated {
		job.Location = loc
	}
}

func (m *JobMapper) applyTag(raw models.Raw, slot Slot, job *models.Job, seen map[string]bool) error {
	v, ok := raw.GetString(slot.Source)
	if !ok {
		if slot.Required {
			return m.missing(slot.Source)
		}
		return nil
	}

	name := m.Vendor + "_" + slot.Name
	if seen[name] {
		return nil
	}
	seen[name] = true

	job.Tags = append(job.Tags, models.Tag{Name: name, Value: v})
	return nil
}

func (m *JobMapper) applySection(raw models.Raw, slot Slot, job *models.Job) {
	desc, ok := raw.GetString(slot.Source)
	if !ok || desc == "" {
		return
	}

	title := slot.Name
	if slot.TitleSource != "" {
		if t, ok := raw.GetString(slot.TitleSource); ok && t != "" {
			title = t
		}
	}

	job.Sections = append(job.Sections, models.Section{
		Name:        m.Vendor + "_" + slot.Name,
		Title:       title,
		Description: StripHTML(desc),
	})
}

func (m *JobMapper) missing(field string) error {
	return errors.New(errors.ErrorTypeMapping, "required field is missing").
		WithDetail("field", field).
		WithDetail("vendor", m.Vendor)
}

func toString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
