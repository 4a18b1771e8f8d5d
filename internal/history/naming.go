package history

import (
	"math/rand"
	"strings"
)

// nameGenerator builds names from syllable tables, seeded from the
// history RNG so a world's names are reproducible.
type nameGenerator struct {
	r *rand.Rand
}

var (
	nameOnsets   = []string{"al", "bar", "cael", "dor", "el", "far", "gal", "har", "ith", "kor", "lun", "mor", "nar", "ost", "per", "quar", "rav", "sel", "thal", "ur", "vor", "wyn", "xan", "yor", "zar"}
	nameMiddles  = []string{"a", "e", "i", "o", "u", "ae", "ia", "or", "an", "en", "il", "um"}
	nameCodas    = []string{"dor", "gard", "heim", "mar", "nor", "rath", "stead", "thorn", "vale", "wick", "burg", "ford", "haven", "hold", "moor"}
	personCodas  = []string{"an", "ar", "eth", "ian", "ic", "in", "ion", "is", "or", "ric", "us", "wen", "wyn"}
	warAdjective = []string{"Broken", "Bitter", "Crimson", "Endless", "Forgotten", "Iron", "Long", "Salt", "Shattered", "Silent"}
	warNouns     = []string{"Crowns", "Fields", "Rivers", "Spears", "Banners", "Chains", "Embers", "Tears", "Walls", "Oaths"}

	artifactKinds    = []string{"Blade", "Crown", "Hammer", "Amulet", "Ring", "Staff", "Shield", "Tome", "Chalice", "Horn"}
	artifactEpithets = []string{"of Dawn", "of the Deep", "of Sorrow", "of Kings", "of the North", "of Embers", "of Whispers", "of the Last Oath", "of Storms", "of the Hollow"}
)

func newNameGenerator(r *rand.Rand) *nameGenerator {
	return &nameGenerator{r: r}
}

func (g *nameGenerator) pick(list []string) string {
	return list[g.r.Intn(len(list))]
}

// Place builds a settlement or region name.
func (g *nameGenerator) Place() string {
	s := g.pick(nameOnsets) + g.pick(nameMiddles) + g.pick(nameCodas)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Person builds a figure name.
func (g *nameGenerator) Person() string {
	s := g.pick(nameOnsets) + g.pick(nameMiddles) + g.pick(personCodas)
	return strings.ToUpper(s[:1]) + s[1:]
}

// FactionName builds a polity name.
func (g *nameGenerator) FactionName() string {
	switch g.r.Intn(3) {
	case 0:
		return "Kingdom of " + g.Place()
	case 1:
		return "The " + g.Place() + " League"
	default:
		return "Clans of " + g.Place()
	}
}

// WarName builds a war title.
func (g *nameGenerator) WarName() string {
	return "War of the " + g.pick(warAdjective) + " " + g.pick(warNouns)
}

// ArtifactName builds an artifact name. Callers retry for uniqueness.
func (g *nameGenerator) ArtifactName() string {
	return "The " + g.pick(warAdjective) + " " + g.pick(artifactKinds) + " " + g.pick(artifactEpithets)
}

// MonsterName builds a legendary creature name.
func (g *nameGenerator) MonsterName() string {
	s := g.pick(nameOnsets) + g.pick(nameMiddles) + g.pick(nameOnsets)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ReligionName builds a faith name.
func (g *nameGenerator) ReligionName() string {
	switch g.r.Intn(3) {
	case 0:
		return "Church of " + g.Person()
	case 1:
		return "The " + g.pick(warAdjective) + " Path"
	default:
		return "Cult of the " + g.pick(warNouns)
	}
}
