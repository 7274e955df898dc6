package builder

import (
	"strings"
	"testing"
)

func TestAssembleRecipe_Title(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
		dishType    string
		want        string
	}{
		{
			name:        "first ingredient capitalized",
			ingredients: []string{"tomato", "basil"},
			dishType:    "Salad",
			want:        "Salad • Tomato",
		},
		{
			name:        "already capitalized",
			ingredients: []string{"Basil"},
			dishType:    "Main",
			want:        "Main • Basil",
		},
		{
			name:     "no ingredients",
			dishType: "Soup",
			want:     "Soup • Chef's Choice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := AssembleRecipe(tt.ingredients, nil, tt.dishType)
			if recipe.Title != tt.want {
				t.Errorf("title = %q, want %q", recipe.Title, tt.want)
			}
		})
	}
}

func TestAssembleRecipe_Steps(t *testing.T) {
	recipe := AssembleRecipe([]string{"tomato", "basil"}, nil, "Salad")

	if len(recipe.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(recipe.Steps))
	}
	if !strings.Contains(recipe.Steps[2], "tomato, basil") {
		t.Errorf("step 3 = %q, expected it to list the ingredients", recipe.Steps[2])
	}
}

func TestAssembleRecipe_DietaryNeverNil(t *testing.T) {
	recipe := AssembleRecipe([]string{"tomato"}, nil, "Main")
	if recipe.Dietary == nil {
		t.Error("dietary should be an empty slice, not nil")
	}
	if len(recipe.Dietary) != 0 {
		t.Errorf("dietary = %v, want empty", recipe.Dietary)
	}

	recipe = AssembleRecipe([]string{"tomato"}, []string{"Vegan"}, "Main")
	if len(recipe.Dietary) != 1 || recipe.Dietary[0] != "Vegan" {
		t.Errorf("dietary = %v, want [Vegan]", recipe.Dietary)
	}
}
