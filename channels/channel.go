package channels

// Attributes are the values delivered by the source playlist. They are never
// written after load.
type Attributes struct {
	// CUID is the stable channel identity. It doubles as the default
	// channel number.
	CUID          string `json:"CUID"`
	Name          string `json:"name"`
	ID            string `json:"id"`
	Logo          string `json:"logo"`
	Title         string `json:"title"`
	ChannelNumber string `json:"channelNumber,omitempty"`
	Grouping      string `json:"grouping,omitempty"`
	Enabled       *bool  `json:"enabled,omitempty"`
}

// Overrides holds user supplied values. A nil field means "inherit".
type Overrides struct {
	ChannelNumber *string `json:"channelNumber,omitempty"`
	Name          *string `json:"name,omitempty"`
	ID            *string `json:"id,omitempty"`
	Logo          *string `json:"logo,omitempty"`
	Title         *string `json:"title,omitempty"`
	Group         *string `json:"group,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"`
}

type Channel struct {
	Attributes Attributes `json:"attributes"`
	Overrides  *Overrides `json:"overrides,omitempty"`
	URL        string     `json:"url"`
}

// EffectiveChannel is the fully resolved view of a Channel. It is derived on
// demand and never persisted.
type EffectiveChannel struct {
	CUID          string
	ChannelNumber string
	Name          string
	ID            string
	Logo          string
	Title         string
	Group         string
	Enabled       bool
	URL           string
}

func (c Channel) Key() string {
	return c.Attributes.CUID
}

func StringPtr(v string) *string {
	return &v
}

func BoolPtr(v bool) *bool {
	return &v
}

// clone returns a copy of o that shares no pointers with it.
func (o *Overrides) clone() *Overrides {
	if o == nil {
		return &Overrides{}
	}
	out := &Overrides{}
	out.ChannelNumber = copyString(o.ChannelNumber)
	out.Name = copyString(o.Name)
	out.ID = copyString(o.ID)
	out.Logo = copyString(o.Logo)
	out.Title = copyString(o.Title)
	out.Group = copyString(o.Group)
	if o.Enabled != nil {
		out.Enabled = BoolPtr(*o.Enabled)
	}
	return out
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	return StringPtr(*v)
}

// Clone returns a deep copy of c.
func Clone(c Channel) Channel {
	if c.Overrides != nil {
		c.Overrides = c.Overrides.clone()
	}
	if c.Attributes.Enabled != nil {
		c.Attributes.Enabled = BoolPtr(*c.Attributes.Enabled)
	}
	return c
}

func CloneList(list []Channel) []Channel {
	out := make([]Channel, len(list))
	for i, c := range list {
		out[i] = Clone(c)
	}
	return out
}
