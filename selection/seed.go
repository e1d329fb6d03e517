package selection

import "m3u-lineup/channels"

type SeedState uint8

const (
	Unset SeedState = iota
	Seeding
	Seeded
)

func (s SeedState) String() string {
	switch s {
	case Seeding:
		return "seeding"
	case Seeded:
		return "seeded"
	default:
		return "unset"
	}
}

// SeedFrom copies a persisted selection into s the first time one is seen.
// Groups and channels are tracked separately. Once a dimension is seeded, or
// the user already picked something when persisted data first arrived, it is
// never seeded again, even if the user later clears it.
func (s *State) SeedFrom(persisted *channels.Selection) bool {
	if persisted == nil {
		return false
	}

	seeded := false
	if s.groupSeed == Unset && len(persisted.Groups) > 0 {
		s.groupSeed = Seeding
		if len(s.SelectedGroupKeys) == 0 {
			s.SetSelectedGroups(persisted.Groups)
			seeded = true
		}
		s.groupSeed = Seeded
	}

	if s.channelSeed == Unset && len(persisted.Children) > 0 {
		s.channelSeed = Seeding
		if len(s.SelectedChannelKeys) == 0 {
			s.SetSelectedChannels(persisted.Children)
			seeded = true
		}
		s.channelSeed = Seeded
	}

	return seeded
}

func (s *State) GroupSeed() SeedState {
	return s.groupSeed
}

func (s *State) ChannelSeed() SeedState {
	return s.channelSeed
}
