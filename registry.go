package main

import "sort"

// Registry is the arena of player records for one room, addressed by
// stable player id. Ownership is single-threaded: only the room's
// serialized handlers and tick touch it.
type Registry struct {
	players map[string]*Player
	order   []string // ids in join order, drives host promotion
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Insert adds a record. A player id maps to at most one active record.
func (r *Registry) Insert(p *Player) {
	if _, exists := r.players[p.ID]; exists {
		return
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Get returns the record for a player id, or nil
func (r *Registry) Get(id string) *Player {
	return r.players[id]
}

// ByClientID finds the record owning a stable client id, or nil.
// This is the reconnection lookup.
func (r *Registry) ByClientID(clientID string) *Player {
	for _, id := range r.order {
		if p := r.players[id]; p != nil && p.ClientID == clientID {
			return p
		}
	}
	return nil
}

// ByConnID finds the record attached to a transport connection, or nil
func (r *Registry) ByConnID(connID string) *Player {
	if connID == "" {
		return nil
	}
	for _, id := range r.order {
		if p := r.players[id]; p != nil && p.ConnID == connID {
			return p
		}
	}
	return nil
}

// Remove deletes a record: bot despawn or explicit leave
func (r *Registry) Remove(id string) {
	if _, ok := r.players[id]; !ok {
		return
	}
	delete(r.players, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns records in join order
func (r *Registry) All() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, id := range r.order {
		if p := r.players[id]; p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Alive returns alive records sorted by id, giving catch detection a
// deterministic iteration order.
func (r *Registry) Alive() []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.Life == LifeAlive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConnectedHumans returns connected non-bot records in join order
func (r *Registry) ConnectedHumans() []*Player {
	var out []*Player
	for _, p := range r.All() {
		if !p.IsBot && p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// Bots returns bot records in join order
func (r *Registry) Bots() []*Player {
	var out []*Player
	for _, p := range r.All() {
		if p.IsBot {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of records
func (r *Registry) Count() int {
	return len(r.players)
}

// NextHost picks the first connected human in join order, or ""
func (r *Registry) NextHost() string {
	for _, p := range r.All() {
		if !p.IsBot && p.Connected {
			return p.ID
		}
	}
	return ""
}
