package history

import "math/rand"

// Doctrine is a behavioural trait of a religion; doctrines modify the
// follower factions' tick dynamics.
type Doctrine uint8

const (
	DoctrineHolyWar Doctrine = iota
	DoctrineProselytizing
	DoctrineSacrificeRequired
	DoctrineMonasticTradition
	DoctrineAsceticism
	DoctrinePacifism
	DoctrineAncestorWorship
	DoctrineSunWorship

	doctrineCount
)

var doctrineNames = [...]string{
	"HolyWar", "Proselytizing", "SacrificeRequired", "MonasticTradition",
	"Asceticism", "Pacifism", "AncestorWorship", "SunWorship",
}

// String returns the doctrine name.
func (d Doctrine) String() string { return doctrineNames[d] }

// Religion is a faith with follower factions.
type Religion struct {
	ID        ReligionID
	Name      string
	Deities   []string
	Doctrines []Doctrine

	Followers     []FactionID
	FollowerCount int
	Hostile       []ReligionID
	Heresies      []ReligionID

	// Parent is the faith this one schismed from (0 for root faiths).
	Parent ReligionID
}

// Has reports whether the religion holds a doctrine.
func (r *Religion) Has(d Doctrine) bool {
	for _, x := range r.Doctrines {
		if x == d {
			return true
		}
	}
	return false
}

// removeFollower drops a faction from the follower list.
func (r *Religion) removeFollower(id FactionID) {
	for i, f := range r.Followers {
		if f == id {
			r.Followers = append(r.Followers[:i], r.Followers[i+1:]...)
			return
		}
	}
}

// Schism splits a heretic faction off a parent religion into a new one.
// The child inherits a random subset of the parent's doctrines plus one
// new doctrine; parent and child mark each other hostile, and the
// heretic faction moves to the child faith.
func (h *WorldHistory) Schism(parent *Religion, heretic *Faction, r *rand.Rand) *Religion {
	child := &Religion{
		ID:     ReligionID(h.ids.religion.Next()),
		Name:   h.names.ReligionName(),
		Parent: parent.ID,
	}

	// Random subset of the parent's doctrines.
	for _, d := range parent.Doctrines {
		if r.Float64() < 0.6 {
			child.Doctrines = append(child.Doctrines, d)
		}
	}
	// Plus one doctrine the parent does not hold.
	for attempt := 0; attempt < 8; attempt++ {
		d := Doctrine(r.Intn(int(doctrineCount)))
		if !parent.Has(d) && !child.Has(d) {
			child.Doctrines = append(child.Doctrines, d)
			break
		}
	}
	child.Deities = append(child.Deities, h.names.Person())

	parent.removeFollower(heretic.ID)
	parent.FollowerCount -= heretic.Population
	if parent.FollowerCount < 0 {
		parent.FollowerCount = 0
	}
	parent.Hostile = append(parent.Hostile, child.ID)
	parent.Heresies = append(parent.Heresies, child.ID)

	child.Followers = append(child.Followers, heretic.ID)
	child.FollowerCount = heretic.Population
	child.Hostile = append(child.Hostile, parent.ID)

	heretic.ReligionID = child.ID
	h.Religions[child.ID] = child
	return child
}
