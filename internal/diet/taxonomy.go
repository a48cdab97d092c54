// Package diet is the deterministic carnivore rules engine. AI extractors
// only propose ingredient lists; the verdict always comes from here.
package diet

import (
	"fmt"
	"strings"
)

// Tier is the compliance classification of a single ingredient. Values are
// ordered by increasing severity; Unknown sits outside the order.
type Tier int

const (
	StrictAllowed Tier = iota
	RelaxedAllowed
	Warning
	DirtyAllowed
	Forbidden
	Unknown Tier = -1
)

func (t Tier) String() string {
	switch t {
	case StrictAllowed:
		return "strict_allowed"
	case RelaxedAllowed:
		return "relaxed_allowed"
	case Warning:
		return "warning"
	case DirtyAllowed:
		return "dirty_allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// matchPriority is the order tiers are consulted in, both for exact and
// substring matches.
var matchPriority = []Tier{Forbidden, StrictAllowed, RelaxedAllowed, Warning, DirtyAllowed}

// Entry is one (tier, name) pair of the taxonomy.
type Entry struct {
	Tier Tier
	Name string
}

// Taxonomy is an immutable, ordered ingredient reference. Build it once at
// startup and share it; nothing mutates it after NewTaxonomy returns.
type Taxonomy struct {
	entries []Entry
	exact   map[string]Tier
	byTier  map[Tier][]string
}

// NewTaxonomy builds a taxonomy from per-tier name lists. Names are folded
// to lower case and trimmed; duplicates inside a tier are dropped. A name
// listed under two tiers is rejected.
func NewTaxonomy(tiers map[Tier][]string) (*Taxonomy, error) {
	t := &Taxonomy{
		exact:  make(map[string]Tier),
		byTier: make(map[Tier][]string),
	}
	for _, tier := range matchPriority {
		for _, raw := range tiers[tier] {
			name := Normalize(raw)
			if name == "" {
				continue
			}
			if existing, ok := t.exact[name]; ok {
				if existing == tier {
					continue
				}
				return nil, fmt.Errorf("ingredient %q listed as both %s and %s", name, existing, tier)
			}
			t.exact[name] = tier
			t.byTier[tier] = append(t.byTier[tier], name)
			t.entries = append(t.entries, Entry{Tier: tier, Name: name})
		}
	}
	return t, nil
}

// MustTaxonomy is NewTaxonomy that panics on overlap. Only for static data.
func MustTaxonomy(tiers map[Tier][]string) *Taxonomy {
	t, err := NewTaxonomy(tiers)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns a copy of the names classified under tier, in insertion order.
func (t *Taxonomy) Names(tier Tier) []string {
	return append([]string(nil), t.byTier[tier]...)
}

// Entries returns a copy of all entries in priority order.
func (t *Taxonomy) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the tier a name is listed under exactly.
func (t *Taxonomy) Lookup(name string) (Tier, bool) {
	tier, ok := t.exact[Normalize(name)]
	return tier, ok
}

// Normalize folds case and surrounding whitespace. No other normalization
// is applied.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultTaxonomy returns the built-in carnivore ruleset.
func DefaultTaxonomy() *Taxonomy {
	return MustTaxonomy(map[Tier][]string{
		StrictAllowed:  strictAllowed,
		RelaxedAllowed: relaxedAllowed,
		Warning:        relaxedWarning,
		DirtyAllowed:   dirtyAllowed,
		Forbidden:      alwaysForbidden,
	})
}

var strictAllowed = []string{
	// beef
	"beef", "steak", "ribeye", "sirloin", "brisket", "ground beef", "beef liver",
	"beef heart", "beef tongue", "beef kidney", "beef fat", "tallow", "bone marrow",
	"picanha", "contra-file", "costela", "alcatra", "maminha", "fraldinha", "acém",
	"patinho", "coxao mole", "coxao duro", "lagarto", "file mignon",
	// pork
	"pork", "bacon", "pork belly", "pork chop", "pork loin", "ham", "pork fat", "lard",
	"pancetta", "porchetta", "linguica", "lombo",
	// lamb and goat
	"lamb", "lamb chop", "lamb leg", "lamb shoulder", "mutton", "cordeiro", "carneiro",
	"goat", "cabrito", "bode",
	// poultry
	"chicken", "chicken thigh", "chicken breast", "chicken liver", "chicken heart",
	"turkey", "duck", "duck fat", "goose", "frango", "peru", "pato",
	// fish
	"fish", "salmon", "tuna", "sardine", "mackerel", "cod", "halibut", "trout",
	"anchovy", "herring", "tilapia", "sea bass", "swordfish",
	"salmao", "atum", "sardinha", "bacalhau",
	// seafood
	"shrimp", "crab", "lobster", "oyster", "mussel", "clam", "scallop", "squid",
	"octopus", "camarao", "caranguejo", "lagosta", "ostra", "lula", "polvo",
	// eggs
	"egg", "eggs", "ovo", "ovos", "egg yolk", "egg white",
	// animal fats
	"animal fat", "chicken fat", "schmaltz", "gordura animal", "banha",
	// broth
	"bone broth", "caldo de osso",
	// salt and water
	"salt", "sea salt", "sal", "water", "agua",
}

var relaxedAllowed = []string{
	// dairy
	"butter", "manteiga", "ghee", "clarified butter",
	"hard cheese", "parmesan", "cheddar", "gruyere", "gouda", "pecorino",
	"queijo", "queijo parmesao", "queijo cheddar",
	"heavy cream", "creme de leite", "cream", "sour cream",
	// black coffee
	"black coffee", "cafe preto", "coffee", "cafe",
}

var relaxedWarning = []string{
	"garlic", "alho",
	"onion", "cebola",
	"pepper", "pimenta",
	"spices", "temperos",
	"herbs", "ervas",
}

var dirtyAllowed = []string{
	"processed meat", "carne processada",
	"hot dog", "salsicha", "sausage", "linguica industrializada",
	"deli meat", "frios", "bologna", "mortadela",
	"industrial cheese", "queijo processado", "cheese spread",
	"jerky", "charque", "carne seca",
	"pepperoni", "salami", "salame",
}

var alwaysForbidden = []string{
	// vegetables
	"vegetable", "vegetables", "legume", "legumes", "verdura", "verduras",
	"salad", "salada", "lettuce", "alface", "tomato", "tomate",
	"cucumber", "pepino", "carrot", "cenoura", "broccoli", "brocolis",
	"spinach", "espinafre", "kale", "couve", "cabbage", "repolho",
	"zucchini", "abobrinha", "eggplant", "berinjela", "bell pepper", "pimentao",
	"cauliflower", "couve-flor", "asparagus", "aspargo",
	// tubers
	"potato", "batata", "sweet potato", "batata doce", "yam", "inhame",
	"cassava", "mandioca", "macaxeira", "aipim", "taro",
	// fruit
	"fruit", "fruits", "fruta", "frutas", "apple", "maca", "banana",
	"orange", "laranja", "grape", "uva", "strawberry", "morango",
	"mango", "manga", "pineapple", "abacaxi", "watermelon", "melancia",
	"avocado", "abacate", "lemon", "limao", "lime",
	// grains
	"grain", "grains", "grao", "graos", "wheat", "trigo", "rice", "arroz",
	"bread", "pao", "pasta", "macarrao", "noodle", "cereal",
	"oat", "aveia", "corn", "milho", "quinoa", "barley", "cevada",
	// legumes
	"bean", "beans", "feijao", "lentil", "lentilha", "chickpea", "grao de bico",
	"pea", "ervilha", "soy", "soja", "tofu", "tempeh",
	// sugar
	"sugar", "acucar", "honey", "mel", "syrup", "xarope", "maple",
	"agave", "molasses", "melaco",
	// seed oils
	"seed oil", "oleo de semente", "vegetable oil", "oleo vegetal",
	"canola oil", "oleo de canola", "soybean oil", "oleo de soja",
	"sunflower oil", "oleo de girassol", "corn oil", "oleo de milho",
	"safflower oil", "cottonseed oil", "grapeseed oil",
	"margarine", "margarina",
	// sauces
	"sauce", "molho", "ketchup", "mustard", "mostarda", "mayonnaise", "maionese",
	"soy sauce", "molho de soja", "teriyaki", "bbq sauce",
	// nuts and seeds
	"nut", "nuts", "nozes", "castanha", "almond", "amendoa", "peanut", "amendoim",
	"walnut", "cashew", "caju", "pistachio", "pistache",
	"seed", "seeds", "semente", "sementes", "chia", "flax", "linhaca",
	"sunflower seed", "semente de girassol", "pumpkin seed",
}
