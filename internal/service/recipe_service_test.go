package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/domain"
)

type recipeServiceFixture struct {
	svc        *RecipeService
	recipeRepo *MockRecipeRepository
	tagRepo    *MockTagRepository
	ingRepo    *MockIngredientRepository
	images     *MockStorageBackend
}

func newRecipeServiceFixture() *recipeServiceFixture {
	f := &recipeServiceFixture{
		recipeRepo: NewMockRecipeRepository(),
		tagRepo:    NewMockTagRepository(),
		ingRepo:    NewMockIngredientRepository(),
		images:     NewMockStorageBackend(),
	}
	f.svc = NewRecipeService(f.recipeRepo, f.tagRepo, f.ingRepo, f.images, zerolog.Nop())
	return f
}

// pngBytes renders a 1x1 PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestRecipeService_Create(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	tag := domain.NewTag(1, "Vegan")
	if err := f.tagRepo.Create(ctx, tag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ingredient := domain.NewIngredient(1, "Cucumber")
	if err := f.ingRepo.Create(ctx, ingredient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{
		Title:         "Avocado toast",
		TimeMinutes:   10,
		Price:         550,
		Link:          "https://example.com/toast",
		TagIDs:        []int64{tag.ID},
		IngredientIDs: []int64{ingredient.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recipe.ID == 0 {
		t.Error("expected assigned recipe ID")
	}
	if recipe.UserID != 1 {
		t.Errorf("expected owner 1, got %d", recipe.UserID)
	}
	if len(recipe.Tags) != 1 || recipe.Tags[0].ID != tag.ID {
		t.Errorf("expected attached tag, got %v", recipe.Tags)
	}
	if len(recipe.Ingredients) != 1 || recipe.Ingredients[0].ID != ingredient.ID {
		t.Errorf("expected attached ingredient, got %v", recipe.Ingredients)
	}
}

func TestRecipeService_Create_RepeatedAssociations(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	tag := domain.NewTag(1, "Vegan")
	if err := f.tagRepo.Create(ctx, tag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ingredient := domain.NewIngredient(1, "Cucumber")
	if err := f.ingRepo.Create(ctx, ingredient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{
		Title:         "Avocado toast",
		TimeMinutes:   10,
		Price:         550,
		TagIDs:        []int64{tag.ID, tag.ID},
		IngredientIDs: []int64{ingredient.ID, ingredient.ID, ingredient.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recipe.Tags) != 1 {
		t.Errorf("expected one attached tag, got %d", len(recipe.Tags))
	}
	if len(recipe.Ingredients) != 1 {
		t.Errorf("expected one attached ingredient, got %d", len(recipe.Ingredients))
	}
	if got := f.recipeRepo.lastTagIDs; len(got) != 1 {
		t.Errorf("expected one tag join id, got %v", got)
	}
	if got := f.recipeRepo.lastIngredientIDs; len(got) != 1 {
		t.Errorf("expected one ingredient join id, got %v", got)
	}

	newTags := []int64{tag.ID, tag.ID}
	if _, err := f.svc.Update(ctx, 1, recipe.ID, UpdateRecipeInput{TagIDs: &newTags}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.recipeRepo.lastTagIDs; len(got) != 1 {
		t.Errorf("expected one tag join id after update, got %v", got)
	}
}

func TestRecipeService_Create_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateRecipeInput
		wantField string
	}{
		{
			name:      "blank title",
			input:     CreateRecipeInput{Title: "  ", TimeMinutes: 10},
			wantField: "title",
		},
		{
			name:      "zero minutes",
			input:     CreateRecipeInput{Title: "Toast", TimeMinutes: 0},
			wantField: "time_minutes",
		},
		{
			name:      "negative minutes",
			input:     CreateRecipeInput{Title: "Toast", TimeMinutes: -5},
			wantField: "time_minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeServiceFixture()

			_, err := f.svc.Create(context.Background(), 1, tt.input)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestRecipeService_Create_ForeignAssociations(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	foreignTag := domain.NewTag(2, "Theirs")
	if err := f.tagRepo.Create(ctx, foreignTag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foreignIngredient := domain.NewIngredient(2, "Theirs")
	if err := f.ingRepo.Create(ctx, foreignIngredient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.Create(ctx, 1, CreateRecipeInput{
		Title:       "Toast",
		TimeMinutes: 10,
		TagIDs:      []int64{foreignTag.ID},
	})
	if !errors.Is(err, domain.ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound for foreign tag, got %v", err)
	}

	_, err = f.svc.Create(ctx, 1, CreateRecipeInput{
		Title:         "Toast",
		TimeMinutes:   10,
		IngredientIDs: []int64{foreignIngredient.ID},
	})
	if !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Errorf("expected ErrIngredientNotFound for foreign ingredient, got %v", err)
	}
}

func TestRecipeService_Update(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	tag := domain.NewTag(1, "Vegan")
	if err := f.tagRepo.Create(ctx, tag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{
		Title:       "Toast",
		TimeMinutes: 10,
		Price:       550,
		Link:        "https://example.com",
		TagIDs:      []int64{tag.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		newTitle := "Better toast"
		updated, err := f.svc.Update(ctx, 1, recipe.ID, UpdateRecipeInput{Title: &newTitle})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Title != newTitle {
			t.Errorf("expected title %q, got %q", newTitle, updated.Title)
		}
		if updated.Link != "https://example.com" {
			t.Errorf("link changed unexpectedly to %q", updated.Link)
		}
		if len(updated.Tags) != 1 {
			t.Errorf("tags changed unexpectedly: %v", updated.Tags)
		}
	})

	t.Run("explicit empty set clears associations", func(t *testing.T) {
		empty := []int64{}
		updated, err := f.svc.Update(ctx, 1, recipe.ID, UpdateRecipeInput{TagIDs: &empty})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.Tags) != 0 {
			t.Errorf("expected no tags, got %v", updated.Tags)
		}
	})

	t.Run("foreign recipe", func(t *testing.T) {
		newTitle := "Stolen"
		_, err := f.svc.Update(ctx, 2, recipe.ID, UpdateRecipeInput{Title: &newTitle})
		if !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("blank title rejected", func(t *testing.T) {
		blank := " "
		_, err := f.svc.Update(ctx, 1, recipe.ID, UpdateRecipeInput{Title: &blank})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) || validationErr.Field != "title" {
			t.Errorf("expected title validation error, got %v", err)
		}
	})
}

func TestRecipeService_Delete(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{Title: "Toast", TimeMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(ctx, 2, recipe.ID); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound for foreign recipe, got %v", err)
	}

	if err := f.svc.Delete(ctx, 1, recipe.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Get(ctx, 1, recipe.ID); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("expected deleted recipe, got %v", err)
	}
}

func TestRecipeService_Delete_CleansImage(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{Title: "Toast", TimeMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.UploadImage(ctx, 1, recipe.ID, "toast.png", bytes.NewReader(pngBytes(t))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.images.objects) != 1 {
		t.Fatalf("expected 1 stored blob, got %d", len(f.images.objects))
	}

	if err := f.svc.Delete(ctx, 1, recipe.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.images.objects) != 0 {
		t.Error("image blob survived recipe deletion")
	}
}

func TestRecipeService_UploadImage(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{Title: "Toast", TimeMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uploaded, err := f.svc.UploadImage(ctx, 1, recipe.ID, "Toast.PNG", bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !uploaded.HasImage() {
		t.Fatal("expected recipe with image")
	}
	if !strings.HasPrefix(uploaded.ImagePath, "recipe/") {
		t.Errorf("unexpected image key %q", uploaded.ImagePath)
	}
	if !strings.HasSuffix(uploaded.ImagePath, ".png") {
		t.Errorf("expected lowercased extension, got %q", uploaded.ImagePath)
	}
	if _, exists := f.images.objects[uploaded.ImagePath]; !exists {
		t.Error("image blob not stored under recorded key")
	}

	t.Run("replacement deletes old blob", func(t *testing.T) {
		oldKey := uploaded.ImagePath

		replaced, err := f.svc.UploadImage(ctx, 1, recipe.ID, "new.png", bytes.NewReader(pngBytes(t)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if replaced.ImagePath == oldKey {
			t.Error("expected a fresh key for the replacement")
		}
		if _, exists := f.images.objects[oldKey]; exists {
			t.Error("replaced blob still stored")
		}
		if len(f.images.objects) != 1 {
			t.Errorf("expected exactly 1 stored blob, got %d", len(f.images.objects))
		}
	})
}

func TestRecipeService_UploadImage_RejectsNonImage(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{Title: "Toast", TimeMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.UploadImage(ctx, 1, recipe.ID, "notes.txt", strings.NewReader("just text"))
	if !errors.Is(err, domain.ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}

	// Nothing may reach the blob store for an invalid payload.
	if len(f.images.objects) != 0 {
		t.Error("invalid payload was stored")
	}
}

func TestRecipeService_GetImage(t *testing.T) {
	f := newRecipeServiceFixture()
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, 1, CreateRecipeInput{Title: "Toast", TimeMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("no image", func(t *testing.T) {
		_, _, err := f.svc.GetImage(ctx, 1, recipe.ID)
		if !errors.Is(err, domain.ErrRecipeHasNoImage) {
			t.Errorf("expected ErrRecipeHasNoImage, got %v", err)
		}
	})

	data := pngBytes(t)
	if _, err := f.svc.UploadImage(ctx, 1, recipe.ID, "toast.png", bytes.NewReader(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		reader, contentType, err := f.svc.GetImage(ctx, 1, recipe.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer reader.Close()

		if contentType != "image/png" {
			t.Errorf("expected image/png, got %q", contentType)
		}
		got, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Error("retrieved image differs from upload")
		}
	})

	t.Run("missing blob", func(t *testing.T) {
		f.images.objects = map[string][]byte{}
		_, _, err := f.svc.GetImage(ctx, 1, recipe.ID)
		if !errors.Is(err, domain.ErrImageNotFound) {
			t.Errorf("expected ErrImageNotFound, got %v", err)
		}
	})
}
