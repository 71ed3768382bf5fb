package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies one of the four submission categories.
// For business submissions the kind doubles as the business_type discriminator.
type Kind string

const (
	KindJobSeeker Kind = "job_seeker"
	KindStaff     Kind = "staff"
	KindKitchen   Kind = "kitchen"
	KindCCG       Kind = "ccg"
)

// Status is a workflow state. The legal set depends on the category.
type Status string

const (
	StatusNew        Status = "New"
	StatusContacted  Status = "Contacted"
	StatusHired      Status = "Hired"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusClosed     Status = "Closed"
)

// Record store collections
const (
	CollectionJobSeekers = "job_seekers"
	CollectionBusinesses = "businesses"
)

// Attachment buckets
const (
	BucketPhotos    = "photos"
	BucketResumes   = "resumes"
	BucketLogos     = "logos"
	BucketDocuments = "documents"
)

// Attachment ceilings in bytes (inclusive)
const (
	MaxImageSize    = 5 * 1024 * 1024
	MaxDocumentSize = 10 * 1024 * 1024
)

// Category is the static configuration that drives intake, review and workflow
// for one kind of submission.
type Category struct {
	Kind           Kind     `json:"kind"`
	Label          string   `json:"label"`
	Slug           string   `json:"slug"`
	Collection     string   `json:"collection"`
	IsBusiness     bool     `json:"is_business"`
	OptionalField  string   `json:"optional_field"`
	OptionalBucket string   `json:"optional_bucket"`
	RequiredField  string   `json:"required_field"`
	RequiredBucket string   `json:"required_bucket"`
	Statuses       []Status `json:"statuses"`
}

var categories = []Category{
	{
		Kind:           KindJobSeeker,
		Label:          "Job Seekers",
		Slug:           "job-seekers",
		Collection:     CollectionJobSeekers,
		OptionalField:  "photo",
		OptionalBucket: BucketPhotos,
		RequiredField:  "resume",
		RequiredBucket: BucketResumes,
		Statuses:       []Status{StatusNew, StatusContacted, StatusClosed},
	},
	{
		Kind:           KindStaff,
		Label:          "Staff Requirements",
		Slug:           "staff",
		Collection:     CollectionBusinesses,
		IsBusiness:     true,
		OptionalField:  "logo",
		OptionalBucket: BucketLogos,
		RequiredField:  "document",
		RequiredBucket: BucketDocuments,
		Statuses:       []Status{StatusNew, StatusContacted, StatusHired, StatusClosed},
	},
	{
		Kind:           KindKitchen,
		Label:          "Kitchen Equipment",
		Slug:           "kitchen",
		Collection:     CollectionBusinesses,
		IsBusiness:     true,
		OptionalField:  "logo",
		OptionalBucket: BucketLogos,
		RequiredField:  "document",
		RequiredBucket: BucketDocuments,
		Statuses:       []Status{StatusNew, StatusProcessing, StatusDelivered, StatusClosed},
	},
	{
		Kind:           KindCCG,
		Label:          "Cutlery, Crockery & Glassware",
		Slug:           "ccg",
		Collection:     CollectionBusinesses,
		IsBusiness:     true,
		OptionalField:  "logo",
		OptionalBucket: BucketLogos,
		RequiredField:  "document",
		RequiredBucket: BucketDocuments,
		Statuses:       []Status{StatusNew, StatusProcessing, StatusDelivered, StatusClosed},
	},
}

// kindAliases maps URL segments and legacy names to kinds
var kindAliases = map[string]Kind{
	"job_seeker":  KindJobSeeker,
	"job_seekers": KindJobSeeker,
	"job-seeker":  KindJobSeeker,
	"job-seekers": KindJobSeeker,
	"jobseekers":  KindJobSeeker,
	"jobs":        KindJobSeeker,
	"staff":       KindStaff,
	"kitchen":     KindKitchen,
	"ccg":         KindCCG,
}

// Categories returns the category table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		c.Statuses = slices.Clone(c.Statuses)
		out[i] = c
	}
	return out
}

// AllKinds returns every kind in display order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(categories))
	for _, c := range categories {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

// CategoryFor looks up the category of a kind.
func CategoryFor(kind Kind) (Category, bool) {
	for _, c := range categories {
		if c.Kind == kind {
			return c, true
		}
	}
	return Category{}, false
}

// ParseKind resolves a kind from its value, URL slug or alias.
func ParseKind(s string) (Kind, error) {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseBusinessKind is ParseKind restricted to the business categories.
func ParseBusinessKind(s string) (Kind, error) {
	kind, err := ParseKind(s)
	if err != nil {
		return "", err
	}
	if kind == KindJobSeeker {
		return "", fmt.Errorf("%w: %q is not a business type", ErrUnknownKind, s)
	}
	return kind, nil
}

// InitialStatus is the state every new submission starts in.
func (c Category) InitialStatus() Status {
	return c.Statuses[0]
}

// Allows reports whether s belongs to the category's status set.
func (c Category) Allows(s Status) bool {
	return slices.Contains(c.Statuses, s)
}
