package channels

import (
	"fmt"
	"strconv"
	"strings"
)

type Field string

const (
	FieldChannelNumber Field = "channelNumber"
	FieldName          Field = "name"
	FieldID            Field = "id"
	FieldLogo          Field = "logo"
	FieldTitle         Field = "title"
	FieldGroup         Field = "group"
	FieldEnabled       Field = "enabled"
)

// NotAvailable is shown for display fields that resolve to nothing.
const NotAvailable = "N/A"

var Fields = []Field{
	FieldChannelNumber,
	FieldName,
	FieldID,
	FieldLogo,
	FieldTitle,
	FieldGroup,
	FieldEnabled,
}

// ParseField maps a column or form name onto a Field. "grouping" is accepted
// as the attribute-side spelling of "group".
func ParseField(name string) (Field, error) {
	switch strings.TrimSpace(name) {
	case "channelNumber":
		return FieldChannelNumber, nil
	case "name":
		return FieldName, nil
	case "id":
		return FieldID, nil
	case "logo":
		return FieldLogo, nil
	case "title":
		return FieldTitle, nil
	case "group", "grouping":
		return FieldGroup, nil
	case "enabled":
		return FieldEnabled, nil
	}
	return "", fmt.Errorf("unknown channel field %q", name)
}

// OverrideValue returns the raw override for field and whether one is set.
// An empty string override counts as unset.
func OverrideValue(c Channel, field Field) (string, bool) {
	o := c.Overrides
	if o == nil {
		return "", false
	}

	var v *string
	switch field {
	case FieldChannelNumber:
		v = o.ChannelNumber
	case FieldName:
		v = o.Name
	case FieldID:
		v = o.ID
	case FieldLogo:
		v = o.Logo
	case FieldTitle:
		v = o.Title
	case FieldGroup:
		v = o.Group
	case FieldEnabled:
		if o.Enabled == nil {
			return "", false
		}
		return strconv.FormatBool(*o.Enabled), true
	}

	if v == nil || *v == "" {
		return "", false
	}
	return *v, true
}

// AttributeValue returns the source value for field and whether it is
// non-empty.
func AttributeValue(c Channel, field Field) (string, bool) {
	a := c.Attributes

	var v string
	switch field {
	case FieldChannelNumber:
		v = a.ChannelNumber
	case FieldName:
		v = a.Name
	case FieldID:
		v = a.ID
	case FieldLogo:
		v = a.Logo
	case FieldTitle:
		v = a.Title
	case FieldGroup:
		v = a.Grouping
	case FieldEnabled:
		if a.Enabled == nil {
			return "", false
		}
		return strconv.FormatBool(*a.Enabled), true
	}
	return v, v != ""
}

// Resolve returns the effective value of field: the override when present,
// otherwise the source attribute, otherwise a per-field fallback.
func Resolve(c Channel, field Field) string {
	if field == FieldEnabled {
		return strconv.FormatBool(ResolveEnabled(c))
	}

	if v, ok := OverrideValue(c, field); ok {
		return v
	}
	if v, ok := AttributeValue(c, field); ok {
		return v
	}
	if field == FieldChannelNumber && c.Attributes.CUID != "" {
		return c.Attributes.CUID
	}
	return NotAvailable
}

func ResolveEnabled(c Channel) bool {
	if c.Overrides != nil && c.Overrides.Enabled != nil {
		return *c.Overrides.Enabled
	}
	if c.Attributes.Enabled != nil {
		return *c.Attributes.Enabled
	}
	return true
}

func Effective(c Channel) EffectiveChannel {
	return EffectiveChannel{
		CUID:          c.Attributes.CUID,
		ChannelNumber: Resolve(c, FieldChannelNumber),
		Name:          Resolve(c, FieldName),
		ID:            Resolve(c, FieldID),
		Logo:          Resolve(c, FieldLogo),
		Title:         Resolve(c, FieldTitle),
		Group:         Resolve(c, FieldGroup),
		Enabled:       ResolveEnabled(c),
		URL:           c.URL,
	}
}
