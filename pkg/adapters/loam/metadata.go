package loam

// MachineMetadata is the frontmatter (or whole YAML/JSON body) of a machine document.
// Symbol and state fields are untyped because documents may write them as numbers;
// schema.Decode normalises them.
type MachineMetadata struct {
	ID          string           `json:"id" mapstructure:"id"`
	Description string           `json:"description" mapstructure:"description"`
	States      []any            `json:"states" mapstructure:"states"`
	Alphabet    []any            `json:"alphabet" mapstructure:"alphabet"`
	Blank       any              `json:"blank" mapstructure:"blank"`
	Input       []any            `json:"input" mapstructure:"input"`
	Initial     any              `json:"initial" mapstructure:"initial"`
	Final       []any            `json:"final" mapstructure:"final"`
	Tape        []any            `json:"tape" mapstructure:"tape"`
	Transitions []map[string]any `json:"transitions" mapstructure:"transitions"`
}

func (m MachineMetadata) toMap() map[string]any {
	raw := map[string]any{
		"id":          m.ID,
		"description": m.Description,
		"states":      m.States,
		"alphabet":    m.Alphabet,
		"input":       m.Input,
		"final":       m.Final,
		"tape":        m.Tape,
	}
	if m.Blank != nil {
		raw["blank"] = m.Blank
	}
	if m.Initial != nil {
		raw["initial"] = m.Initial
	}
	rows := make([]any, len(m.Transitions))
	for i, t := range m.Transitions {
		rows[i] = t
	}
	raw["transitions"] = rows
	return raw
}
