package client

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var phonePattern = regexp.MustCompile(`^\d{7,15}$`)

func nameRules(required bool) []validation.Rule {
	rules := []validation.Rule{validation.Length(3, 0).Error("must be at least 3 characters")}
	if required {
		rules = append([]validation.Rule{validation.Required}, rules...)
	}
	return rules
}

func emailRules(required bool) []validation.Rule {
	rules := []validation.Rule{is.EmailFormat}
	if required {
		rules = append([]validation.Rule{validation.Required}, rules...)
	}
	return rules
}

// empty phone is allowed, anything else must be 7-15 digits
var phoneRules = []validation.Rule{validation.Match(phonePattern).Error("must have between 7 and 15 digits")}

// Validate checks a create input.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules(true)...),
		validation.Field(&in.Email, emailRules(true)...),
		validation.Field(&in.Phone, phoneRules...),
	)
}

// Validate checks a full update input.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules(true)...),
		validation.Field(&in.Email, emailRules(true)...),
		validation.Field(&in.Phone, phoneRules...),
		validation.Field(&in.Version, validation.Min(InitialVersion)),
	)
}

// Validate checks only the fields present in the patch.
func (in PatchInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(3, 0).Error("must be at least 3 characters")),
		validation.Field(&in.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&in.Phone, phoneRules...),
		validation.Field(&in.Version, validation.Min(InitialVersion)),
	)
}

// Validate checks paging and sort parameters. Call after WithDefaults.
func (q ListQuery) Validate() error {
	sortFields := make([]any, len(SortFields))
	for i, f := range SortFields {
		sortFields[i] = f
	}
	return validation.ValidateStruct(&q,
		validation.Field(&q.Page, validation.Min(0), validation.Max(MaxPage)),
		validation.Field(&q.Size, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
		validation.Field(&q.SortBy, validation.Required, validation.In(sortFields...)),
		validation.Field(&q.SortDir, validation.Required, validation.In(SortAsc, SortDesc)),
	)
}
