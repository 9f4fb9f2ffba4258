package pizza

import (
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	adjectives = map[string][]string{
		"dark":        {"dark", "morbid", "scary", "spooky", "gothic", "deviant", "creepy", "sadistic", "black", "dangerous"},
		"color":       {"blue", "green", "purple", "grey", "scarlet", "lime", "silver", "magenta", "cerulean", "orange"},
		"whimsical":   {"whimsical", "silly", "drunken", "goofy", "funny", "weird", "strange", "odd", "playful", "clever"},
		"shiny":       {"shiny", "sparkly", "glittery", "polished", "lustrous", "glowing", "radiant", "gleaming", "dazzling"},
		"noisy":       {"untuned", "loud", "soft", "shrieking", "melodious", "musical", "operatic", "symphonic", "dancing"},
		"scientific":  {"scientific", "technical", "digital", "programming", "calculating", "formulaic", "astronomical"},
		"apocalyptic": {"radioactive", "nuclear", "toxic", "irradiated", "mutant", "post-apocalyptic", "wasteland"},
	}
	nouns = map[string][]string{
		"animals":  {"flamingo", "hedgehog", "owl", "elephant", "pussycat", "alligator", "dachsund", "poodle", "beagle"},
		"everyday": {"mirror", "tooth", "shoe", "sock", "bed", "chair", "lamp", "clock", "umbrella", "kettle"},
		"fantasy":  {"centaur", "dragon", "unicorn", "wizard", "troll", "goblin", "mermaid", "phoenix", "griffin"},
		"places":   {"basement", "attic", "harbor", "lighthouse", "meadow", "volcano", "canyon", "glacier", "desert"},
		"scifi":    {"robot", "alien", "laser", "spaceship", "android", "cyborg", "galaxy", "nebula", "starship"},
		"jewelry":  {"earring", "necklace", "bracelet", "ring", "brooch", "tiara", "amulet", "locket", "pendant"},
	}

	adjectiveKinds = sortedKeys(adjectives)
	nounKinds      = sortedKeys(nouns)

	meats    = []string{"Pepperoni", "Sausage", "Fennel Sausage", "Spicy Sausage", "Chicken", "BBQ Chicken", "Chorizo", "Chicken Andouille", "Salami", "Tofu", "Bacon", "Canadian Bacon", "Proscuitto", "Italian Sausage", "Ground Beef", "Anchovies", "Turkey", "Ham", "Venison", "Lamb", "Duck", "Soylent Green", "Carne Asada", "Soppressata Picante", "Coppa", "Pancetta", "Bresola", "Lox", "Guanciale", "Chili", "Beef Jerky", "Pastrami", "Kielbasa", "Scallops", "Filet Mignon"}
	nonMeats = []string{"White Onions", "Red Onions", "Sauteed Onions", "Green Peppers", "Red Peppers", "Banana Peppers", "Ghost Peppers", "Habanero Peppers", "Jalapeno Peppers", "Stuffed Peppers", "Spinach", "Tomatoes", "Pineapple", "Pear Slices", "Apple Slices", "Mushrooms", "Arugula", "Basil", "Fennel", "Rosemary", "Cilantro", "Avocado", "Guacamole", "Salsa", "Swiss Chard", "Kale", "Sun Dried Tomatoes", "Walnuts", "Artichoke", "Asparagus", "Caramelized Onions", "Mango", "Garlic", "Olives", "Cauliflower", "Polenta", "Fried Egg", "Zucchini", "Hummus"}
	cheeses  = []string{"American Cheese", "Swiss Cheese", "Goat Cheese", "Mozzarella Cheese", "Parmesean Cheese", "Velveeta Cheese", "Gouda Cheese", "Muenster Cheese", "Applewood Cheese", "Asiago Cheese", "Bleu Cheese", "Boursin Cheese", "Brie Cheese", "Cheddar Cheese", "Chevre Cheese", "Havarti Cheese", "Jack Cheese", "Pepper Jack Cheese", "Gruyere Cheese", "Limberger Cheese", "Manchego Cheese", "Marscapone Cheese", "Pecorino Cheese", "Provolone Cheese", "Queso Cheese", "Roquefort Cheese", "Romano Cheese", "Ricotta Cheese", "Smoked Gouda"}
	sauces   = []string{"Red Sauce", "Marinara", "BBQ Sauce", "No Sauce", "Hot Sauce"}
	crusts   = []string{"White Crust", "Whole Wheat Crust", "Flatbread Crust", "Stuffed Crust"}
)

// sortedKeys fixes the iteration order so seeded generators are reproducible.
func sortedKeys(m map[string][]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// Generator produces random pizzas. It is not safe for concurrent use; the
// worker creates one per request.
type Generator struct {
	rng   *rand.Rand
	title cases.Caser
}

// NewGenerator creates a generator drawing from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{
		rng:   rand.New(src),
		title: cases.Title(language.English),
	}
}

// NewSeededGenerator creates a reproducible generator.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomGenerator creates a generator seeded from the runtime's entropy.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generate returns exactly count records.
func (g *Generator) Generate(count int) RecordBatch {
	if count <= 0 {
		return RecordBatch{}
	}
	batch := make(RecordBatch, count)
	for i := range batch {
		batch[i] = ContentRecord{Name: g.RandomName(), Body: g.RandomPizza()}
	}
	return batch
}

// RandomName returns e.g. "The Glowing Dragon".
func (g *Generator) RandomName() string {
	adj := g.pick(adjectives[g.pick(adjectiveKinds)])
	noun := g.pick(nouns[g.pick(nounKinds)])
	return "The " + g.title.String(adj) + " " + g.title.String(noun)
}

// RandomPizza returns the ingredient list markup for one pizza: up to three
// meats, up to two other toppings, at most one cheese, one sauce and one crust.
func (g *Generator) RandomPizza() string {
	var b strings.Builder
	for range g.rng.IntN(4) {
		writeItem(&b, g.pick(meats))
	}
	for range g.rng.IntN(3) {
		writeItem(&b, g.pick(nonMeats))
	}
	for range g.rng.IntN(2) {
		writeItem(&b, g.pick(cheeses))
	}
	writeItem(&b, g.pick(sauces))
	writeItem(&b, g.pick(crusts))
	return b.String()
}

func (g *Generator) pick(from []string) string {
	return from[g.rng.IntN(len(from))]
}

func writeItem(b *strings.Builder, item string) {
	b.WriteString("<li>")
	b.WriteString(item)
	b.WriteString("</li>")
}
