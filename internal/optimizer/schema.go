package optimizer

// Schema is the subset of the provider's OpenAPI schema object used for
// structured output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	TypeObject = "OBJECT"
	TypeString = "STRING"
	TypeArray  = "ARRAY"
)

// ResponseSchema returns a fresh copy of the declared output shape.
func ResponseSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"optimizedPrompt": {
				Type:        TypeString,
				Description: "The final, optimized prompt ready for the user.",
			},
			"explanationTitle": {
				Type:        TypeString,
				Description: "The title for the explanation section, e.g., 'What Changed' or 'Key Improvements'.",
			},
			"improvements": {
				Type:        TypeArray,
				Description: "A list of key improvements made to the prompt and their benefits.",
				Items:       &Schema{Type: TypeString},
			},
			"techniquesApplied": {
				Type:        TypeString,
				Description: "A brief mention of the techniques applied (e.g., Chain-of-Thought, Role Assignment). Only for complex requests.",
			},
			"proTip": {
				Type:        TypeString,
				Description: "Actionable usage guidance or a pro tip for the user. Only for complex requests.",
			},
		},
		Required: []string{"optimizedPrompt", "explanationTitle", "improvements"},
	}
}
