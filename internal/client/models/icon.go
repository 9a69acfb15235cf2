package models

// Icon is a communication symbol: an emoji and the phrase it speaks.
type Icon struct {
	ID       int64  `json:"id"`
	Emoji    string `json:"emoji"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Catalog maps category keys to their icons, in display order.
type Catalog = OrderedMap[[]Icon]

var categoryNames = map[string]string{
	"sentimentos":  "Sentimentos",
	"necessidades": "Necessidades",
	"comida":       "Comida",
	"cores":        "Cores",
	"alfabeto":     "Alfabeto",
	"familia":      "Família",
}

// CategoryDisplayName returns the label shown for a category key. Keys
// created by users are shown as they are.
func CategoryDisplayName(key string) string {
	if name, ok := categoryNames[key]; ok {
		return name
	}
	return key
}

// TotalIcons counts icons across all categories.
func TotalIcons(c *Catalog) int {
	n := 0
	for _, k := range c.Keys() {
		icons, _ := c.Get(k)
		n += len(icons)
	}
	return n
}

// MaxIconID returns the largest icon id in c, or 0 for an empty catalog.
func MaxIconID(c *Catalog) int64 {
	var max int64
	for _, k := range c.Keys() {
		icons, _ := c.Get(k)
		for _, ic := range icons {
			if ic.ID > max {
				max = ic.ID
			}
		}
	}
	return max
}

// HasIconID reports whether any category holds an icon with this id.
func HasIconID(c *Catalog, id int64) bool {
	for _, k := range c.Keys() {
		icons, _ := c.Get(k)
		for _, ic := range icons {
			if ic.ID == id {
				return true
			}
		}
	}
	return false
}

// DefaultCatalog is the seed catalog: six categories of six icons, ids 1-36.
func DefaultCatalog() Catalog {
	seed := []struct {
		key   string
		icons [][2]string
	}{
		{"sentimentos", [][2]string{
			{"😊", "Estou feliz"}, {"😢", "Estou triste"}, {"😰", "Estou com medo"},
			{"😡", "Estou bravo"}, {"😴", "Estou cansado"}, {"🤗", "Quero um abraço"},
		}},
		{"necessidades", [][2]string{
			{"🍽️", "Estou com fome"}, {"💧", "Estou com sede"}, {"🚽", "Preciso ir ao banheiro"},
			{"🛏️", "Quero dormir"}, {"🎮", "Quero brincar"}, {"📺", "Quero assistir TV"},
		}},
		{"comida", [][2]string{
			{"🍎", "Maçã"}, {"🍌", "Banana"}, {"🍞", "Pão"},
			{"🥛", "Leite"}, {"🍕", "Pizza"}, {"🍪", "Biscoito"},
		}},
		{"cores", [][2]string{
			{"🔴", "Vermelho"}, {"🔵", "Azul"}, {"🟢", "Verde"},
			{"🟡", "Amarelo"}, {"🟣", "Roxo"}, {"🟠", "Laranja"},
		}},
		{"alfabeto", [][2]string{
			{"🅰️", "A"}, {"🅱️", "B"}, {"🔤", "C"},
			{"🔤", "D"}, {"🔤", "E"}, {"🔤", "F"},
		}},
		{"familia", [][2]string{
			{"👨", "Papai"}, {"👩", "Mamãe"}, {"❤️", "Eu te amo"},
			{"🤗", "Obrigado"}, {"👋", "Oi"}, {"👋", "Tchau"},
		}},
	}

	c := NewOrderedMap[[]Icon]()
	var id int64
	for _, cat := range seed {
		icons := make([]Icon, 0, len(cat.icons))
		for _, ic := range cat.icons {
			id++
			icons = append(icons, Icon{ID: id, Emoji: ic[0], Text: ic[1], Category: cat.key})
		}
		c.Set(cat.key, icons)
	}
	return c
}
