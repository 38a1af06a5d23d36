package models

import "strconv"

// Cursor marks a position in a vendor listing. Vendors either return an
// opaque next-page token or advance by page number.
type Cursor interface {
	// String renders the cursor for logs and error details.
	String() string
}

// PageID is an opaque continuation token returned by the vendor.
type PageID string

func (p PageID) String() string { return string(p) }

// Offset is a zero-based page number for vendors with numbered pages.
type Offset int

func (o Offset) String() string {
	return "page=" + strconv.Itoa(int(o))
}

// WriteStatus is the terminal state of one item pushed to a vendor.
type WriteStatus string

const (
	// StatusCreated marks an item written as a new vendor record.
	StatusCreated WriteStatus = "created"
	// StatusUpdated marks an item that updated an existing vendor record.
	StatusUpdated WriteStatus = "updated"
	// StatusFailed marks an item the vendor rejected. Reason carries the
	// failure; the rest of the batch is unaffected.
	StatusFailed WriteStatus = "failed"
)

// WriteOutcome reports what happened to a single pushed item.
type WriteOutcome struct {
	// Reference is the canonical reference of the pushed item.
	Reference string `json:"reference"`

	Status WriteStatus `json:"status"`

	// VendorID is the vendor-side identifier when the write succeeded.
	VendorID string `json:"vendor_id,omitempty"`

	// Reason carries the failure for StatusFailed outcomes.
	Reason error `json:"-"`

	// AssociationFailed reports that the record was created but the
	// follow-up association call failed. The create is not undone.
	AssociationFailed bool `json:"association_failed,omitempty"`
}

// Failed reports whether the item terminally failed.
func (o WriteOutcome) Failed() bool { return o.Status == StatusFailed }
