// Package history simulates centuries of world history: factions,
// figures, dynasties, wars, religion, artifacts, and trade, advanced one
// season per tick, chronicled in an insert-only event log.
package history

import (
	"sort"

	"github.com/google/uuid"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/rng"
)

// Entity ids. Zero means "none" in every registry.
type (
	FactionID    uint64
	FigureID     uint64
	DynastyID    uint64
	WarID        uint64
	SiegeID      uint64
	SettlementID uint64
	ArtifactID   uint64
	MonumentID   uint64
	ReligionID   uint64
	MonsterID    uint64
	LairID       uint64
	DungeonID    uint64
)

// Race enumerates the playable/NPC races with their lifespans.
type Race uint8

const (
	RaceHuman Race = iota
	RaceElf
	RaceDwarf
	RaceOrc
	RaceGoblin
	RaceLizardfolk
)

var raceNames = [...]string{"human", "elf", "dwarf", "orc", "goblin", "lizardfolk"}

// String returns the race name.
func (r Race) String() string { return raceNames[r] }

var raceLifespans = [...]int{80, 400, 160, 50, 40, 90}

// Lifespan returns the race's natural lifespan in years.
func (r Race) Lifespan() int { return raceLifespans[r] }

// Stance is the diplomatic posture between two factions.
type Stance uint8

const (
	StanceNeutral Stance = iota
	StanceTreaty
	StanceAllied
	StanceHostile
	StanceAtWar
	StancePeace
)

// Relation is one side of a diplomatic relationship.
type Relation struct {
	Opinion    int
	Stance     Stance
	ActiveWars []WarID
}

// SuccessionLaw governs what happens when a ruler dies.
type SuccessionLaw uint8

const (
	LawPrimogeniture SuccessionLaw = iota
	LawElective
	LawTanistry
	LawOpen
	LawTheocratic
)

// CrisisProne reports whether the law invites succession crises.
func (l SuccessionLaw) CrisisProne() bool {
	switch l {
	case LawOpen, LawTanistry, LawElective:
		return true
	}
	return false
}

// Personality scores a figure's inclinations in [0,1].
type Personality struct {
	War       float64
	Diplomacy float64
	Builder   float64
	Tyranny   float64
}

// Culture captures a faction's behavioural biases.
type Culture struct {
	Xenophobia float64
	Aggression float64
	TradeBias  float64
}

// Faction is a polity: settlements, relations, wars, wealth.
type Faction struct {
	ID         FactionID
	Name       string
	Race       Race
	Culture    Culture
	LeaderID   FigureID
	DynastyID  DynastyID
	Population int
	Military   float64

	Settlements []SettlementID
	Succession  SuccessionLaw
	ReligionID  ReligionID

	Relations map[FactionID]*Relation
	Wars      []WarID
	Wealth    int

	Dissolved bool
}

// MaxActiveWars caps concurrent wars per faction.
const MaxActiveWars = 2

// AtWarCap reports whether the faction cannot take another war.
func (f *Faction) AtWarCap() bool { return len(f.Wars) >= MaxActiveWars }

// RelationWith returns (creating if needed) the relation toward other.
func (f *Faction) RelationWith(other FactionID) *Relation {
	if f.Relations == nil {
		f.Relations = make(map[FactionID]*Relation)
	}
	r, ok := f.Relations[other]
	if !ok {
		r = &Relation{}
		f.Relations[other] = r
	}
	return r
}

// Figure is a notable person.
type Figure struct {
	ID          FigureID
	Name        string
	Race        Race
	FactionID   FactionID
	Birth       chronicle.Date
	Death       chronicle.Date
	Alive       bool
	Personality Personality
	Skills      []string
	Parents     []FigureID
	Children    []FigureID
	Enemies     []FigureID
	Artifacts   []ArtifactID
	// Burial site, once dead and interred.
	HasBurial bool
	BurialX   int
	BurialY   int
	BurialZ   int
}

// Age returns the figure's age in years at the given date.
func (f *Figure) Age(now chronicle.Date) int { return now.YearsSince(f.Birth) }

// Dynasty tracks a ruling family.
type Dynasty struct {
	ID          DynastyID
	Name        string
	Head        FigureID
	Members     []FigureID
	Generations int
	Prestige    int
	Scandals    int
}

// WarCause tags why a war was declared.
type WarCause uint8

const (
	CauseBorderFriction WarCause = iota
	CauseAncientGrudge
	CauseWarmonger
	CauseHolyCrusade
	CauseSuccession
)

// War is an active or concluded conflict.
type War struct {
	ID        WarID
	Aggressor FactionID
	Defender  FactionID
	// Allies that honoured the call on each side.
	AggressorAllies []FactionID
	DefenderAllies  []FactionID
	Cause           WarCause
	Start           chronicle.Date
	Ended           bool
	End             chronicle.Date

	CasualtiesAggressor int
	CasualtiesDefender  int

	DeclarationEvent chronicle.EventID
	BattleEvents     []chronicle.EventID
	Sieges           []SiegeID
	Victor           FactionID
}

// Siege is an ongoing investment of a settlement.
type Siege struct {
	ID       SiegeID
	War      WarID
	Attacker FactionID
	Defender FactionID
	Target   SettlementID
	Start    chronicle.Date

	AttackerStrength float64
	DefenderStrength float64

	BeginEvent chronicle.EventID
	Ended      bool
}

// SettlementTier ranks settlement size.
type SettlementTier uint8

const (
	TierCamp SettlementTier = iota
	TierHamlet
	TierVillage
	TierTown
	TierCity
	TierMetropolis
)

var tierNames = [...]string{"camp", "hamlet", "village", "town", "city", "metropolis"}

// String returns the tier name.
func (t SettlementTier) String() string { return tierNames[t] }

// tierThresholds is indexed by the tier being entered.
var tierThresholds = [...]int{0, 80, 300, 1200, 5000, 20000}

// TierFor returns the tier a population supports.
func TierFor(pop int) SettlementTier {
	tier := TierCamp
	for t := TierHamlet; t <= TierMetropolis; t++ {
		if pop >= tierThresholds[t] {
			tier = t
		}
	}
	return tier
}

// SettlementState tracks whether a settlement prospers.
type SettlementState uint8

const (
	StateThriving SettlementState = iota
	StateDeclining
	StateRuined
)

// Settlement is a faction's populated place.
type Settlement struct {
	ID         SettlementID
	Name       string
	X, Y       int
	Faction    FactionID
	Population int
	Tier       SettlementTier
	State      SettlementState
	Defence    float64
	Monuments  []MonumentID
	Destroyed  bool
}

// Monument is a built work at a settlement.
type Monument struct {
	ID         MonumentID
	Name       string
	Kind       string
	Creator    FactionID
	Settlement SettlementID
	X, Y       int
	Quality    int
}

// MonsterSpecies enumerates historic monster kinds.
type MonsterSpecies uint8

const (
	SpeciesDragon MonsterSpecies = iota
	SpeciesGiantSpider
	SpeciesTroll
	SpeciesOgre
	SpeciesWerewolf
	SpeciesCaveCrawler
	SpeciesDeepWorm
	SpeciesGiantAnt
	SpeciesGiantBee
	SpeciesWraith
)

var speciesNames = [...]string{
	"dragon", "giant spider", "troll", "ogre", "werewolf",
	"cave crawler", "deep worm", "giant ant", "giant bee", "wraith",
}

// String returns the species name.
func (s MonsterSpecies) String() string { return speciesNames[s] }

// HistoricMonster is a named creature of legend.
type HistoricMonster struct {
	ID        MonsterID
	Name      string
	Species   MonsterSpecies
	X, Y      int
	Alive     bool
	Legendary bool
	Kills     int
}

// Lair is a monster's den.
type Lair struct {
	ID      LairID
	Monster MonsterID
	Species MonsterSpecies
	Name    string
	X, Y, Z int
}

// Dungeon is a registered delving site.
type Dungeon struct {
	ID       DungeonID
	Name     string
	X, Y     int
	DepthMin int
}

// TileHistory annotates one overworld tile with its events and road bit.
type TileHistory struct {
	Events []chronicle.EventID
	Road   bool
}

// SimulationParams tune the tick's stochastic rates.
type SimulationParams struct {
	WarFrequency    float64
	DiplomacyRate   float64
	ArtifactRate    float64
	MonumentRate    float64
	MonsterActivity float64
	TradeRate       float64
}

// DefaultParams returns the baseline rates.
func DefaultParams() SimulationParams {
	return SimulationParams{
		WarFrequency:    1.0,
		DiplomacyRate:   1.0,
		ArtifactRate:    1.0,
		MonumentRate:    1.0,
		MonsterActivity: 1.0,
		TradeRate:       1.0,
	}
}

// WorldHistory is the whole historical state of one world.
type WorldHistory struct {
	WorldID uuid.UUID
	Seed    uint64
	Width   int
	Height  int

	StartDate   chronicle.Date
	CurrentDate chronicle.Date

	Factions    map[FactionID]*Faction
	Figures     map[FigureID]*Figure
	Dynasties   map[DynastyID]*Dynasty
	Wars        map[WarID]*War
	Sieges      map[SiegeID]*Siege
	Settlements map[SettlementID]*Settlement
	Monuments   map[MonumentID]*Monument
	Artifacts   *ArtifactRegistry
	Religions   map[ReligionID]*Religion
	Monsters    map[MonsterID]*HistoricMonster
	Lairs       map[LairID]*Lair
	Dungeons    map[DungeonID]*Dungeon

	Chronicle *chronicle.Log
	Tiles     *grid.Tilemap[TileHistory]

	ids struct {
		faction, figure, dynasty, war, siege, settlement *rng.IDAllocator
		monument, religion, monster, lair, dungeon       *rng.IDAllocator
	}

	names *nameGenerator
}

// HasRoad reports the road bit of a tile. Implements paths.RoadNetwork.
func (h *WorldHistory) HasRoad(x, y int) bool {
	x, y = grid.WrapX(x, h.Width), grid.ClampY(y, h.Height)
	return h.Tiles.Get(x, y).Road
}

// MarkRoad sets the road bit of a tile permanently.
func (h *WorldHistory) MarkRoad(x, y int) {
	x, y = grid.WrapX(x, h.Width), grid.ClampY(y, h.Height)
	th := h.Tiles.Get(x, y)
	th.Road = true
	h.Tiles.Set(x, y, th)
}

// recordTileEvent attaches an event to a tile's history.
func (h *WorldHistory) recordTileEvent(x, y int, id chronicle.EventID) {
	x, y = grid.WrapX(x, h.Width), grid.ClampY(y, h.Height)
	th := h.Tiles.Get(x, y)
	th.Events = append(th.Events, id)
	h.Tiles.Set(x, y, th)
}

// append writes an event to the chronicle stamped with the current date.
func (h *WorldHistory) append(e chronicle.Event) chronicle.EventID {
	e.Date = h.CurrentDate
	return h.Chronicle.Append(e)
}

// Faction population mutation is saturating: losses can exceed recorded
// deaths but never wrap negative.
func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// Sorted-id views over the registries. The tick iterates these instead
// of Go maps so a fixed seed replays identically.

func sortedKeys[K ~uint64, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (h *WorldHistory) factionIDs() []FactionID       { return sortedKeys(h.Factions) }
func (h *WorldHistory) figureIDs() []FigureID         { return sortedKeys(h.Figures) }
func (h *WorldHistory) warIDs() []WarID               { return sortedKeys(h.Wars) }
func (h *WorldHistory) siegeIDs() []SiegeID           { return sortedKeys(h.Sieges) }
func (h *WorldHistory) settlementIDs() []SettlementID { return sortedKeys(h.Settlements) }
func (h *WorldHistory) religionIDs() []ReligionID     { return sortedKeys(h.Religions) }
func (h *WorldHistory) monsterIDs() []MonsterID       { return sortedKeys(h.Monsters) }

// LiveFactions returns non-dissolved factions in id order.
func (h *WorldHistory) LiveFactions() []*Faction {
	var out []*Faction
	for _, id := range h.factionIDs() {
		if f := h.Factions[id]; !f.Dissolved {
			out = append(out, f)
		}
	}
	return out
}
