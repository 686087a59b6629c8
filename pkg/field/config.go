package field

// Permission sentinels for AllowAdd and AllowRemove. Any other value names a
// source resolved against the declaring object.
const (
	// Always permits the operation, subject to the proxy.
	Always = ""
	// Never forbids the operation.
	Never = "-"
)

// Config is the option table of an editing field. It decodes from YAML
// through viper (mapstructure tags).
type Config struct {
	// Label is the static frame label.
	Label string `mapstructure:"label"`
	// LabelSource names a string source replacing Label while attached.
	LabelSource string `mapstructure:"labelSource"`

	AllowAdd    string `mapstructure:"allowAdd"`
	AllowRemove string `mapstructure:"allowRemove"`
	// AllowReorder enables drag reordering when the proxy supports it.
	AllowReorder bool `mapstructure:"allowReorder"`
	// AllowDragCancel lets Escape abort a drag instead of committing it.
	AllowDragCancel bool `mapstructure:"allowDragCancel"`
	// AllowDerived offers registered derived types when adding.
	AllowDerived bool `mapstructure:"allowDerived"`

	AddCallback     string `mapstructure:"addCallback"`
	RemoveCallback  string `mapstructure:"removeCallback"`
	ReorderCallback string `mapstructure:"reorderCallback"`
	ChangeCallback  string `mapstructure:"changeCallback"`

	// MaxItems names an int source; adding stops at that count.
	MaxItems string `mapstructure:"maxItems"`

	EmptyLabel     string `mapstructure:"emptyLabel"`
	EmptyTooltip   string `mapstructure:"emptyTooltip"`
	AddTooltip     string `mapstructure:"addTooltip"`
	RemoveTooltip  string `mapstructure:"removeTooltip"`
	ReorderTooltip string `mapstructure:"reorderTooltip"`

	// AddPlaceholder is the pending-key placeholder of map fields.
	AddPlaceholder string `mapstructure:"addPlaceholder"`

	IsCollapsable bool `mapstructure:"isCollapsable"`
}

// DefaultConfig returns the defaults shared by list and map fields.
func DefaultConfig() Config {
	return Config{AllowReorder: true}
}

func (c Config) withDefaults(noun string) Config {
	def := func(v *string, s string) {
		if *v == "" {
			*v = s
		}
	}
	def(&c.EmptyLabel, "The "+noun+" is empty")
	def(&c.EmptyTooltip, "There are no items in this "+noun)
	def(&c.AddTooltip, "Add an item to this "+noun)
	def(&c.RemoveTooltip, "Remove this item from the "+noun)
	def(&c.ReorderTooltip, "Move this item within the "+noun)
	def(&c.AddPlaceholder, "New key")
	return c
}
