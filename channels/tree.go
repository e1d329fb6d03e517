package channels

// Group is a read-only node of the source tree.
type Group struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Children []Channel `json:"children"`
}

// Selection is the persisted choice of groups and channels.
type Selection struct {
	Groups   []string `json:"groups"`
	Children []string `json:"children"`
}

// Tree is the payload of the source tree load.
type Tree struct {
	TreeData                  []Group    `json:"treeData"`
	SelectedGroupsAndChannels *Selection `json:"selectedGroupsAndChannels,omitempty"`
}

func (t Tree) Group(key string) (Group, bool) {
	for _, g := range t.TreeData {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}
