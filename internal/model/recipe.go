package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is an ordered list of strings stored as a JSON array column
type StringList []string

// Value implements the driver.Valuer interface
func (a StringList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(value interface{}) error {
	if value == nil {
		*a = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	var items []string
	if err := json.Unmarshal(bytes, &items); err != nil {
		return err
	}
	if items == nil {
		items = []string{}
	}
	*a = items
	return nil
}

// MarshalJSON always renders an array, never null
func (a StringList) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// Recipe is a titled collection of ingredients and ordered steps
type Recipe struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Ingredients StringList `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       StringList `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_recipes_created_at,sort:desc;autoCreateTime:false" json:"createdAt"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeInput is the create payload. Absent lists default to empty.
type RecipeInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// NewRecipe builds an unsaved Recipe from the input. ID and CreatedAt are left for the store.
func (in RecipeInput) NewRecipe() *Recipe {
	r := &Recipe{
		Ingredients: StringList{},
		Steps:       StringList{},
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Ingredients != nil {
		r.Ingredients = append(StringList{}, in.Ingredients...)
	}
	if in.Steps != nil {
		r.Steps = append(StringList{}, in.Steps...)
	}
	return r
}

// RecipePatch is a partial update. Nil fields are left untouched.
// ID and CreatedAt have no field here, so an update cannot change them.
type RecipePatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	Steps       *[]string `json:"steps,omitempty"`
}

// Empty reports whether the patch supplies no fields
func (p RecipePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Ingredients == nil && p.Steps == nil
}

// Apply replaces the supplied fields of r
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = append(StringList{}, (*p.Ingredients)...)
	}
	if p.Steps != nil {
		r.Steps = append(StringList{}, (*p.Steps)...)
	}
}

// Columns returns the column names the patch touches, in a stable order
func (p RecipePatch) Columns() []string {
	var cols []string
	if p.Title != nil {
		cols = append(cols, "title")
	}
	if p.Description != nil {
		cols = append(cols, "description")
	}
	if p.Ingredients != nil {
		cols = append(cols, "ingredients")
	}
	if p.Steps != nil {
		cols = append(cols, "steps")
	}
	return cols
}
