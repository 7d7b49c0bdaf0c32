package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field names used by the catalog API for the attributes the app reads.
const (
	fieldID           = "idDrink"
	fieldName         = "strDrink"
	fieldThumbnail    = "strDrinkThumb"
	fieldInstructions = "strInstructions"
	fieldCategory     = "strCategory"
	fieldAlcoholic    = "strAlcoholic"
	fieldGlass        = "strGlass"

	// MaxIngredients is the number of strIngredientN/strMeasureN pairs a drink carries.
	MaxIngredients = 15
)

// Drink is a recipe as returned by the catalog. Attributes the app does not
// interpret are kept in Extra so that a drink survives a decode/encode cycle.
type Drink struct {
	ID           string
	Name         string
	Thumbnail    string
	Instructions string
	Category     string
	Alcoholic    string
	Glass        string

	Extra map[string]json.RawMessage
}

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

func (d *Drink) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("drink: expected object, got null")
	}

	*d = Drink{}
	known := map[string]*string{
		fieldID:           &d.ID,
		fieldName:         &d.Name,
		fieldThumbnail:    &d.Thumbnail,
		fieldInstructions: &d.Instructions,
		fieldCategory:     &d.Category,
		fieldAlcoholic:    &d.Alcoholic,
		fieldGlass:        &d.Glass,
	}

	for key, raw := range fields {
		target, ok := known[key]
		if !ok {
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[key] = raw
			continue
		}
		value, err := scalarString(raw)
		if err != nil {
			return fmt.Errorf("drink field %s: %w", key, err)
		}
		*target = value
		// Nulls and numbers are kept verbatim so encoding writes them back unchanged.
		if !isJSONString(raw) {
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[key] = raw
		}
	}

	return nil
}

func (d Drink) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+7)
	for key, raw := range d.Extra {
		out[key] = raw
	}

	d.putKnown(out, fieldID, d.ID, true)
	d.putKnown(out, fieldName, d.Name, true)
	d.putKnown(out, fieldThumbnail, d.Thumbnail, true)
	d.putKnown(out, fieldInstructions, d.Instructions, true)
	d.putKnown(out, fieldCategory, d.Category, false)
	d.putKnown(out, fieldAlcoholic, d.Alcoholic, false)
	d.putKnown(out, fieldGlass, d.Glass, false)

	return json.Marshal(out)
}

// putKnown writes a typed field, keeping the decoded raw value while it still
// reads as the current one.
func (d Drink) putKnown(out map[string]any, key, value string, always bool) {
	if raw, ok := d.Extra[key]; ok {
		if current, err := scalarString(raw); err == nil && current == value {
			return
		}
	}
	if always || value != "" {
		out[key] = value
		return
	}
	delete(out, key)
}

// Field returns a pass-through attribute as a string, or "" when it is absent or null.
func (d Drink) Field(key string) string {
	raw, ok := d.Extra[key]
	if !ok {
		return ""
	}
	value, err := scalarString(raw)
	if err != nil {
		return ""
	}
	return value
}

// Ingredients pairs strIngredientN with strMeasureN, skipping empty slots.
func (d Drink) Ingredients() []Ingredient {
	var ingredients []Ingredient
	for i := 1; i <= MaxIngredients; i++ {
		name := strings.TrimSpace(d.Field("strIngredient" + strconv.Itoa(i)))
		if name == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(d.Field("strMeasure" + strconv.Itoa(i))),
		})
	}
	return ingredients
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// scalarString reads a JSON string, number or null as a Go string.
func scalarString(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strings.TrimSpace(string(raw)), nil
	default:
		return "", fmt.Errorf("unexpected value %s", string(raw))
	}
}
