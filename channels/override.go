package channels

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride returns a copy of c whose overrides have field set to value.
// Attributes are left untouched and c itself is not modified.
func ApplyOverride(c Channel, field Field, value string) (Channel, error) {
	next := c.Overrides.clone()

	switch field {
	case FieldChannelNumber:
		next.ChannelNumber = StringPtr(value)
	case FieldName:
		next.Name = StringPtr(value)
	case FieldID:
		next.ID = StringPtr(value)
	case FieldLogo:
		next.Logo = StringPtr(value)
	case FieldTitle:
		next.Title = StringPtr(value)
	case FieldGroup:
		next.Group = StringPtr(value)
	case FieldEnabled:
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return c, fmt.Errorf("error parsing enabled value %q: %w", value, err)
		}
		next.Enabled = BoolPtr(enabled)
	default:
		return c, fmt.Errorf("unknown channel field %q", field)
	}

	c.Overrides = next
	return c, nil
}

// ApplyOverrides merges every non-nil field of patch over the existing
// overrides of c.
func ApplyOverrides(c Channel, patch Overrides) Channel {
	next := c.Overrides.clone()
	p := patch.clone()

	if p.ChannelNumber != nil {
		next.ChannelNumber = p.ChannelNumber
	}
	if p.Name != nil {
		next.Name = p.Name
	}
	if p.ID != nil {
		next.ID = p.ID
	}
	if p.Logo != nil {
		next.Logo = p.Logo
	}
	if p.Title != nil {
		next.Title = p.Title
	}
	if p.Group != nil {
		next.Group = p.Group
	}
	if p.Enabled != nil {
		next.Enabled = p.Enabled
	}

	c.Overrides = next
	return c
}

// ReplaceByCUID returns a new list where the entry sharing updated's CUID is
// replaced. Every other entry is carried over as is.
func ReplaceByCUID(list []Channel, updated Channel) []Channel {
	out := make([]Channel, len(list))
	for i, c := range list {
		if c.Attributes.CUID == updated.Attributes.CUID {
			out[i] = updated
			continue
		}
		out[i] = c
	}
	return out
}

// UpdateByCUID applies fn to the entry identified by cuid. The returned bool
// reports whether such an entry existed.
func UpdateByCUID(list []Channel, cuid string, fn func(Channel) (Channel, error)) ([]Channel, bool, error) {
	idx := IndexOf(list, cuid)
	if idx < 0 {
		return list, false, nil
	}

	updated, err := fn(list[idx])
	if err != nil {
		return list, true, err
	}
	return ReplaceByCUID(list, updated), true, nil
}

func IndexOf(list []Channel, cuid string) int {
	for i, c := range list {
		if c.Attributes.CUID == cuid {
			return i
		}
	}
	return -1
}

func Find(list []Channel, cuid string) (Channel, bool) {
	idx := IndexOf(list, cuid)
	if idx < 0 {
		return Channel{}, false
	}
	return list[idx], true
}

// Index maps each CUID to its first position in list.
func Index(list []Channel) map[string]int {
	out := make(map[string]int, len(list))
	for i, c := range list {
		if _, exists := out[c.Attributes.CUID]; !exists {
			out[c.Attributes.CUID] = i
		}
	}
	return out
}
