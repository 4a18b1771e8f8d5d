// Package overworld holds the immutable top-level world data: one record
// of climate, tectonic, and biome fields per overworld tile, produced once
// at generation time and read by every layer below.
package overworld

// Biome classifies an overworld tile. The set is closed; properties hang
// off flat lookup tables indexed by the tag, not methods-per-variant.
type Biome uint8

const (
	BiomeUnknown Biome = iota

	// Open water
	BiomeDeepOcean
	BiomeOcean
	BiomeCoastalWaters
	BiomeFrozenOcean
	BiomeSea
	BiomeLake
	BiomeFrozenLake
	BiomeRiver

	// Polar and subpolar
	BiomeIceSheet
	BiomeGlacier
	BiomePolarDesert
	BiomeTundra
	BiomeRockyTundra
	BiomeAlpineTundra
	BiomePermafrostBog

	// Boreal
	BiomeTaiga
	BiomeSnowyTaiga
	BiomeBorealForest
	BiomeColdBog

	// Temperate forest
	BiomeDeciduousForest
	BiomeMixedForest
	BiomeOldGrowthForest
	BiomeTemperateRainforest
	BiomeCloudForest
	BiomeAutumnalForest

	// Temperate open
	BiomeGrassland
	BiomeMeadow
	BiomePrairie
	BiomeSteppe
	BiomeHeathland
	BiomeShrubland
	BiomeFoothills

	// Mediterranean / dry-warm
	BiomeChaparral
	BiomeDryWoodland
	BiomeOliveScrub

	// Tropical
	BiomeTropicalRainforest
	BiomeJungle
	BiomeMonsoonForest
	BiomeMangrove
	BiomeTropicalGrassland
	BiomeSavanna
	BiomeThornscrub

	// Arid
	BiomeDesert
	BiomeSandDunes
	BiomeRockyDesert
	BiomeSaltFlats
	BiomeBadlands
	BiomeOasis
	BiomeColdDesert

	// Wetland
	BiomeSwamp
	BiomeMarsh
	BiomeBog
	BiomeFen
	BiomeFloodplain
	BiomeDelta
	BiomeReedBeds

	// Highland
	BiomeHills
	BiomeHighland
	BiomePlateau
	BiomeMountain
	BiomeMountainForest
	BiomeAlpine
	BiomeSnowyPeaks
	BiomeCrags
	BiomeScree

	// Volcanic
	BiomeVolcano
	BiomeLavaField
	BiomeVolcanicWasteland
	BiomeAshlands
	BiomeObsidianPlain
	BiomeGeothermalSprings
	BiomeFumaroleField

	// Coastal land
	BiomeBeach
	BiomeRockyShore
	BiomeCliffs
	BiomeCoastalDunes
	BiomeTidalFlats

	// Degraded / exotic natural
	BiomeWasteland
	BiomeSaltMarsh
	BiomeKarst
	BiomeCanyon
	BiomeMesa
	BiomeCraterField
	BiomePetrifiedForest

	// Fantasy / unique
	BiomeEnchantedForest
	BiomeFeywood
	BiomeEldertrees
	BiomeShadowMarsh
	BiomeBloodFen
	BiomeCursedBarrens
	BiomeBlightedLand
	BiomeHauntedForest
	BiomeWitchwood
	BiomeCrystalFields
	BiomeCrystalSpires
	BiomeMushroomForest
	BiomeGiantMycelium
	BiomeFungalWastes
	BiomeSingingSands
	BiomeGlassDesert
	BiomeStarfallCrater
	BiomeDragonScorch
	BiomeBoneFields
	BiomeFrozenHellscape
	BiomeEternalStorm
	BiomeAuroraTundra
	BiomeSunkenRuins
	BiomeDrownedForest
	BiomeMistValley
	BiomeEchoCanyon
	BiomeFloatingStones
	BiomeLeyNexus
	BiomeArcaneWastes
	BiomeVerdantHeart

	biomeCount
)

// BiomeFamily groups biomes for geology, road costs, and blending.
type BiomeFamily uint8

const (
	FamilyWater BiomeFamily = iota
	FamilyPolar
	FamilyBoreal
	FamilyTemperateForest
	FamilyOpen
	FamilyTropical
	FamilyArid
	FamilyWetland
	FamilyHighland
	FamilyVolcanic
	FamilyCoast
	FamilyExotic
)

// biomeNames is indexed by the biome tag.
var biomeNames = [biomeCount]string{
	BiomeUnknown:       "Unknown",
	BiomeDeepOcean:     "Deep Ocean",
	BiomeOcean:         "Ocean",
	BiomeCoastalWaters: "Coastal Waters",
	BiomeFrozenOcean:   "Frozen Ocean",
	BiomeSea:           "Sea",
	BiomeLake:          "Lake",
	BiomeFrozenLake:    "Frozen Lake",
	BiomeRiver:         "River",

	BiomeIceSheet:      "Ice Sheet",
	BiomeGlacier:       "Glacier",
	BiomePolarDesert:   "Polar Desert",
	BiomeTundra:        "Tundra",
	BiomeRockyTundra:   "Rocky Tundra",
	BiomeAlpineTundra:  "Alpine Tundra",
	BiomePermafrostBog: "Permafrost Bog",

	BiomeTaiga:        "Taiga",
	BiomeSnowyTaiga:   "Snowy Taiga",
	BiomeBorealForest: "Boreal Forest",
	BiomeColdBog:      "Cold Bog",

	BiomeDeciduousForest:     "Deciduous Forest",
	BiomeMixedForest:         "Mixed Forest",
	BiomeOldGrowthForest:     "Old-Growth Forest",
	BiomeTemperateRainforest: "Temperate Rainforest",
	BiomeCloudForest:         "Cloud Forest",
	BiomeAutumnalForest:      "Autumnal Forest",

	BiomeGrassland: "Grassland",
	BiomeMeadow:    "Meadow",
	BiomePrairie:   "Prairie",
	BiomeSteppe:    "Steppe",
	BiomeHeathland: "Heathland",
	BiomeShrubland: "Shrubland",
	BiomeFoothills: "Foothills",

	BiomeChaparral:   "Chaparral",
	BiomeDryWoodland: "Dry Woodland",
	BiomeOliveScrub:  "Olive Scrub",

	BiomeTropicalRainforest: "Tropical Rainforest",
	BiomeJungle:             "Jungle",
	BiomeMonsoonForest:      "Monsoon Forest",
	BiomeMangrove:           "Mangrove",
	BiomeTropicalGrassland:  "Tropical Grassland",
	BiomeSavanna:            "Savanna",
	BiomeThornscrub:         "Thornscrub",

	BiomeDesert:      "Desert",
	BiomeSandDunes:   "Sand Dunes",
	BiomeRockyDesert: "Rocky Desert",
	BiomeSaltFlats:   "Salt Flats",
	BiomeBadlands:    "Badlands",
	BiomeOasis:       "Oasis",
	BiomeColdDesert:  "Cold Desert",

	BiomeSwamp:      "Swamp",
	BiomeMarsh:      "Marsh",
	BiomeBog:        "Bog",
	BiomeFen:        "Fen",
	BiomeFloodplain: "Floodplain",
	BiomeDelta:      "Delta",
	BiomeReedBeds:   "Reed Beds",

	BiomeHills:          "Hills",
	BiomeHighland:       "Highland",
	BiomePlateau:        "Plateau",
	BiomeMountain:       "Mountain",
	BiomeMountainForest: "Mountain Forest",
	BiomeAlpine:         "Alpine",
	BiomeSnowyPeaks:     "Snowy Peaks",
	BiomeCrags:          "Crags",
	BiomeScree:          "Scree",

	BiomeVolcano:           "Volcano",
	BiomeLavaField:         "Lava Field",
	BiomeVolcanicWasteland: "Volcanic Wasteland",
	BiomeAshlands:          "Ashlands",
	BiomeObsidianPlain:     "Obsidian Plain",
	BiomeGeothermalSprings: "Geothermal Springs",
	BiomeFumaroleField:     "Fumarole Field",

	BiomeBeach:        "Beach",
	BiomeRockyShore:   "Rocky Shore",
	BiomeCliffs:       "Cliffs",
	BiomeCoastalDunes: "Coastal Dunes",
	BiomeTidalFlats:   "Tidal Flats",

	BiomeWasteland:       "Wasteland",
	BiomeSaltMarsh:       "Salt Marsh",
	BiomeKarst:           "Karst",
	BiomeCanyon:          "Canyon",
	BiomeMesa:            "Mesa",
	BiomeCraterField:     "Crater Field",
	BiomePetrifiedForest: "Petrified Forest",

	BiomeEnchantedForest: "Enchanted Forest",
	BiomeFeywood:         "Feywood",
	BiomeEldertrees:      "Eldertrees",
	BiomeShadowMarsh:     "Shadow Marsh",
	BiomeBloodFen:        "Blood Fen",
	BiomeCursedBarrens:   "Cursed Barrens",
	BiomeBlightedLand:    "Blighted Land",
	BiomeHauntedForest:   "Haunted Forest",
	BiomeWitchwood:       "Witchwood",
	BiomeCrystalFields:   "Crystal Fields",
	BiomeCrystalSpires:   "Crystal Spires",
	BiomeMushroomForest:  "Mushroom Forest",
	BiomeGiantMycelium:   "Giant Mycelium",
	BiomeFungalWastes:    "Fungal Wastes",
	BiomeSingingSands:    "Singing Sands",
	BiomeGlassDesert:     "Glass Desert",
	BiomeStarfallCrater:  "Starfall Crater",
	BiomeDragonScorch:    "Dragon Scorch",
	BiomeBoneFields:      "Bone Fields",
	BiomeFrozenHellscape: "Frozen Hellscape",
	BiomeEternalStorm:    "Eternal Storm",
	BiomeAuroraTundra:    "Aurora Tundra",
	BiomeSunkenRuins:     "Sunken Ruins",
	BiomeDrownedForest:   "Drowned Forest",
	BiomeMistValley:      "Mist Valley",
	BiomeEchoCanyon:      "Echo Canyon",
	BiomeFloatingStones:  "Floating Stones",
	BiomeLeyNexus:        "Ley Nexus",
	BiomeArcaneWastes:    "Arcane Wastes",
	BiomeVerdantHeart:    "Verdant Heart",
}

// biomeFamilies is indexed by the biome tag.
var biomeFamilies = [biomeCount]BiomeFamily{
	BiomeUnknown:       FamilyOpen,
	BiomeDeepOcean:     FamilyWater,
	BiomeOcean:         FamilyWater,
	BiomeCoastalWaters: FamilyWater,
	BiomeFrozenOcean:   FamilyWater,
	BiomeSea:           FamilyWater,
	BiomeLake:          FamilyWater,
	BiomeFrozenLake:    FamilyWater,
	BiomeRiver:         FamilyWater,

	BiomeIceSheet:      FamilyPolar,
	BiomeGlacier:       FamilyPolar,
	BiomePolarDesert:   FamilyPolar,
	BiomeTundra:        FamilyPolar,
	BiomeRockyTundra:   FamilyPolar,
	BiomeAlpineTundra:  FamilyPolar,
	BiomePermafrostBog: FamilyPolar,

	BiomeTaiga:        FamilyBoreal,
	BiomeSnowyTaiga:   FamilyBoreal,
	BiomeBorealForest: FamilyBoreal,
	BiomeColdBog:      FamilyBoreal,

	BiomeDeciduousForest:     FamilyTemperateForest,
	BiomeMixedForest:         FamilyTemperateForest,
	BiomeOldGrowthForest:     FamilyTemperateForest,
	BiomeTemperateRainforest: FamilyTemperateForest,
	BiomeCloudForest:         FamilyTemperateForest,
	BiomeAutumnalForest:      FamilyTemperateForest,

	BiomeGrassland: FamilyOpen,
	BiomeMeadow:    FamilyOpen,
	BiomePrairie:   FamilyOpen,
	BiomeSteppe:    FamilyOpen,
	BiomeHeathland: FamilyOpen,
	BiomeShrubland: FamilyOpen,
	BiomeFoothills: FamilyOpen,

	BiomeChaparral:   FamilyOpen,
	BiomeDryWoodland: FamilyTemperateForest,
	BiomeOliveScrub:  FamilyOpen,

	BiomeTropicalRainforest: FamilyTropical,
	BiomeJungle:             FamilyTropical,
	BiomeMonsoonForest:      FamilyTropical,
	BiomeMangrove:           FamilyTropical,
	BiomeTropicalGrassland:  FamilyTropical,
	BiomeSavanna:            FamilyTropical,
	BiomeThornscrub:         FamilyTropical,

	BiomeDesert:      FamilyArid,
	BiomeSandDunes:   FamilyArid,
	BiomeRockyDesert: FamilyArid,
	BiomeSaltFlats:   FamilyArid,
	BiomeBadlands:    FamilyArid,
	BiomeOasis:       FamilyArid,
	BiomeColdDesert:  FamilyArid,

	BiomeSwamp:      FamilyWetland,
	BiomeMarsh:      FamilyWetland,
	BiomeBog:        FamilyWetland,
	BiomeFen:        FamilyWetland,
	BiomeFloodplain: FamilyWetland,
	BiomeDelta:      FamilyWetland,
	BiomeReedBeds:   FamilyWetland,

	BiomeHills:          FamilyHighland,
	BiomeHighland:       FamilyHighland,
	BiomePlateau:        FamilyHighland,
	BiomeMountain:       FamilyHighland,
	BiomeMountainForest: FamilyHighland,
	BiomeAlpine:         FamilyHighland,
	BiomeSnowyPeaks:     FamilyHighland,
	BiomeCrags:          FamilyHighland,
	BiomeScree:          FamilyHighland,

	BiomeVolcano:           FamilyVolcanic,
	BiomeLavaField:         FamilyVolcanic,
	BiomeVolcanicWasteland: FamilyVolcanic,
	BiomeAshlands:          FamilyVolcanic,
	BiomeObsidianPlain:     FamilyVolcanic,
	BiomeGeothermalSprings: FamilyVolcanic,
	BiomeFumaroleField:     FamilyVolcanic,

	BiomeBeach:        FamilyCoast,
	BiomeRockyShore:   FamilyCoast,
	BiomeCliffs:       FamilyCoast,
	BiomeCoastalDunes: FamilyCoast,
	BiomeTidalFlats:   FamilyCoast,

	BiomeWasteland:       FamilyArid,
	BiomeSaltMarsh:       FamilyWetland,
	BiomeKarst:           FamilyHighland,
	BiomeCanyon:          FamilyHighland,
	BiomeMesa:            FamilyHighland,
	BiomeCraterField:     FamilyArid,
	BiomePetrifiedForest: FamilyExotic,

	BiomeEnchantedForest: FamilyExotic,
	BiomeFeywood:         FamilyExotic,
	BiomeEldertrees:      FamilyExotic,
	BiomeShadowMarsh:     FamilyExotic,
	BiomeBloodFen:        FamilyExotic,
	BiomeCursedBarrens:   FamilyExotic,
	BiomeBlightedLand:    FamilyExotic,
	BiomeHauntedForest:   FamilyExotic,
	BiomeWitchwood:       FamilyExotic,
	BiomeCrystalFields:   FamilyExotic,
	BiomeCrystalSpires:   FamilyExotic,
	BiomeMushroomForest:  FamilyExotic,
	BiomeGiantMycelium:   FamilyExotic,
	BiomeFungalWastes:    FamilyExotic,
	BiomeSingingSands:    FamilyExotic,
	BiomeGlassDesert:     FamilyExotic,
	BiomeStarfallCrater:  FamilyExotic,
	BiomeDragonScorch:    FamilyExotic,
	BiomeBoneFields:      FamilyExotic,
	BiomeFrozenHellscape: FamilyExotic,
	BiomeEternalStorm:    FamilyExotic,
	BiomeAuroraTundra:    FamilyExotic,
	BiomeSunkenRuins:     FamilyExotic,
	BiomeDrownedForest:   FamilyExotic,
	BiomeMistValley:      FamilyExotic,
	BiomeEchoCanyon:      FamilyExotic,
	BiomeFloatingStones:  FamilyExotic,
	BiomeLeyNexus:        FamilyExotic,
	BiomeArcaneWastes:    FamilyExotic,
	BiomeVerdantHeart:    FamilyExotic,
}

// String returns the display name of the biome.
func (b Biome) String() string {
	if int(b) >= len(biomeNames) {
		return "Unknown"
	}
	return biomeNames[b]
}

// Family returns the biome's family grouping.
func (b Biome) Family() BiomeFamily {
	if int(b) >= len(biomeFamilies) {
		return FamilyOpen
	}
	return biomeFamilies[b]
}

// IsWater reports whether the biome is open water.
func (b Biome) IsWater() bool {
	return b.Family() == FamilyWater
}

// IsForest reports whether the biome carries dense tree cover.
func (b Biome) IsForest() bool {
	switch b.Family() {
	case FamilyTemperateForest, FamilyBoreal:
		return true
	}
	switch b {
	case BiomeTropicalRainforest, BiomeJungle, BiomeMonsoonForest, BiomeMangrove,
		BiomeMountainForest, BiomeEnchantedForest, BiomeFeywood, BiomeEldertrees,
		BiomeHauntedForest, BiomeWitchwood, BiomeMushroomForest, BiomeDrownedForest:
		return true
	}
	return false
}

// BiomeCount is the number of biome tags, for property tables.
const BiomeCount = int(biomeCount)
