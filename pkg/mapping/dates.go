// Package mapping implements the pure transformation layer between raw
// vendor records and canonical jobs and profiles: table-driven field slots,
// timestamp normalization and HTML stripping.
package mapping

import (
	"time"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
)

// CanonicalTimeLayout is the single timestamp format used on canonical
// records: RFC 3339 UTC with second precision.
const CanonicalTimeLayout = "2006-01-02T15:04:05Z"

// acceptedLayouts are the ISO-8601 shapes vendors actually send.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDate converts a vendor timestamp into the canonical layout.
// Vendors send either ISO-8601 strings or epoch seconds; both normalize to
// one second-precision UTC string.
func NormalizeDate(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		for _, layout := range acceptedLayouts {
			parsed, err := time.Parse(layout, t)
			if err == nil {
				return parsed.UTC().Truncate(time.Second).Format(CanonicalTimeLayout), nil
			}
		}
		return "", errors.New(errors.ErrorTypeMapping, "unparseable timestamp").
			WithDetail("value", t)
	case float64:
		return time.Unix(int64(t), 0).UTC().Format(CanonicalTimeLayout), nil
	case int64:
		return time.Unix(t, 0).UTC().Format(CanonicalTimeLayout), nil
	case int:
		return time.Unix(int64(t), 0).UTC().Format(CanonicalTimeLayout), nil
	default:
		return "", errors.New(errors.ErrorTypeMapping, "unsupported timestamp type").
			WithDetail("value", v)
	}
}

// DateConvert adapts NormalizeDate to the slot converter signature.
func DateConvert(v interface{}) (interface{}, error) {
	s, err := NormalizeDate(v)
	if err != nil {
		return nil, err
	}
	return s, nil
}
