package service

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alexanderramin/trackscope/internal/domain"
)

const (
	maxKeyLength   = 64
	maxNameLength  = 200
	maxCodeLength  = 64
	maxTitleLength = 500
)

var trackKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type CreateTrackRequest struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	NameAlt     string `json:"name_alt"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (r *CreateTrackRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key,
			validation.Required,
			validation.Length(1, maxKeyLength),
			validation.Match(trackKeyPattern).Error("must be a lowercase slug"),
		),
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, maxNameLength),
		),
	)
}

// CreateNodeRequest inserts one scope node. An empty Code is synthesized from
// the parent's code and the node's position; a code already in use is
// suffixed rather than rejected. A nil OrderIndex appends after the last
// sibling.
type CreateNodeRequest struct {
	TrackID    string  `json:"track_id"`
	ParentID   *string `json:"parent_id,omitempty"`
	Code       string  `json:"code"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	OrderIndex *int    `json:"order_index,omitempty"`
}

func (r *CreateNodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TrackID, validation.Required),
		validation.Field(&r.Code, validation.Length(0, maxCodeLength)),
		validation.Field(&r.Title,
			validation.Required,
			validation.Length(1, maxTitleLength),
		),
		validation.Field(&r.OrderIndex, validation.Min(0)),
	)
}

// UpdateNodeRequest edits node text. Nil fields are left unchanged.
type UpdateNodeRequest struct {
	Title    *string `json:"title,omitempty"`
	TitleAlt *string `json:"title_alt,omitempty"`
	Body     *string `json:"body,omitempty"`
	BodyAlt  *string `json:"body_alt,omitempty"`
}

func (r *UpdateNodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
		validation.Field(&r.TitleAlt, validation.Length(0, maxTitleLength)),
	)
}

// SetProgressRequest is a per-node progress edit. Status overrides the
// status derived from Progress.
type SetProgressRequest struct {
	Progress float64            `json:"progress"`
	Status   *domain.NodeStatus `json:"status,omitempty"`
}

func (r *SetProgressRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Progress, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&r.Status, validation.In(domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted)),
	)
}
