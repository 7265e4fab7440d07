package identity

// Guard protects views that need an authenticated identity. When access is
// denied it records the originally requested target so the caller can return
// there after logging in.
type Guard struct {
	store  *Store
	target string
}

func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Authorize grants access to target when an identity is present. On denial
// the target is remembered for Resume.
func (g *Guard) Authorize(target string) (Identity, bool) {
	id, ok := g.store.Current()
	if !ok {
		g.target = target
		return Identity{}, false
	}
	return id, true
}

// Resume returns the target recorded by the last denied Authorize, or "/"
// when there is none, and forgets it.
func (g *Guard) Resume() string {
	target := g.target
	g.target = ""
	if target == "" {
		return "/"
	}
	return target
}
