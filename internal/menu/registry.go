package menu

import "strings"

// Node is one menu id. Loader lists the entries shown when the node is
// opened and Action runs on the entry picked there. Children are keyed by
// the last segment of their id, so "sessions:close" hangs off "sessions"
// under "close".
type Node struct {
	ID       string
	Loader   Loader
	Action   Action
	Children map[string]*Node
}

// Registry indexes every menu node by id.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// detached ids are reachable only by navigating to them directly. The login
// picker is shown before any session exists and has no parent.
var detached = map[string]bool{"root": true, "login": true}

func BuildRegistry() *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	r.root = r.node("root")
	r.root.Loader = func(Context) ([]Item, error) { return RootItems(), nil }

	for _, loaders := range []map[string]Loader{CategoryLoaders(), ActionLoaders()} {
		for id, loader := range loaders {
			r.node(id).Loader = loader
		}
	}
	for id, action := range ActionHandlers() {
		r.node(id).Action = action
	}

	// Attaching can create parents, so snapshot the ids first.
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if detached[id] {
			continue
		}
		parent, key := splitID(id)
		r.node(parent).Children[key] = r.nodes[id]
	}
	return r
}

func (r *Registry) node(id string) *Node {
	if n, ok := r.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Children: make(map[string]*Node)}
	r.nodes[id] = n
	return n
}

func (r *Registry) Root() *Node {
	return r.root
}

func (r *Registry) Find(id string) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Child resolves key under parentID.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	n, ok := parent.Children[key]
	return n, ok
}

// splitID returns the parent id and the child key of id. Top level ids
// belong to root.
func splitID(id string) (parent, key string) {
	i := strings.LastIndexByte(id, ':')
	if i < 0 {
		return "root", id
	}
	return id[:i], id[i+1:]
}
