package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

func TestBudget_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewBudgetRepository()

	b, err := r.Create(ctx, repository.CreateBudgetInput{
		FamilyID:   "fam-1",
		Name:       "Supermercado",
		Category:   "comida",
		LimitCents: 50_000,
		Currency:   "EUR",
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("budget sin id o timestamps: %+v", b)
	}

	got, err := r.GetByID(ctx, "fam-1", b.ID)
	if err != nil || got.Name != "Supermercado" {
		t.Fatalf("got %+v, %v", got, err)
	}

	newLimit := int64(60_000)
	upd, err := r.Update(ctx, "fam-1", b.ID, repository.UpdateBudgetInput{LimitCents: &newLimit})
	if err != nil || upd.LimitCents != 60_000 {
		t.Fatalf("update: %+v, %v", upd, err)
	}
	if upd.Name != "Supermercado" {
		t.Fatal("un campo nil no debe cambiar el valor existente")
	}

	upd, err = r.AddSpend(ctx, "fam-1", b.ID, 1_250)
	if err != nil || upd.SpentCents != 1_250 {
		t.Fatalf("add spend: %+v, %v", upd, err)
	}

	if err := r.Delete(ctx, "fam-1", b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetByID(ctx, "fam-1", b.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("esperaba not found tras delete, got %v", err)
	}
}

func TestBudget_FamilyIsolation(t *testing.T) {
	ctx := context.Background()
	r := NewBudgetRepository()

	b, err := r.Create(ctx, repository.CreateBudgetInput{FamilyID: "fam-1", Name: "Ocio"})
	if err != nil {
		t.Fatal(err)
	}
	// Otra familia no ve el budget ni siquiera con el id correcto.
	if _, err := r.GetByID(ctx, "fam-2", b.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("esperaba not found cruzando familias, got %v", err)
	}
	if err := r.Delete(ctx, "fam-2", b.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("delete cruzando familias: %v", err)
	}
	list, err := r.ListByFamily(ctx, "fam-2")
	if err != nil || len(list) != 0 {
		t.Fatalf("fam-2 no debería listar nada: %v, %v", list, err)
	}
}

func TestBudget_CreateValidatesInput(t *testing.T) {
	r := NewBudgetRepository()
	if _, err := r.Create(context.Background(), repository.CreateBudgetInput{FamilyID: "fam-1"}); !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("esperaba invalid input, got %v", err)
	}
}

func TestTask_CompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()

	task, err := r.Create(ctx, repository.CreateTaskInput{FamilyID: "fam-1", Title: "Sacar la basura"})
	if err != nil {
		t.Fatal(err)
	}
	first, err := r.Complete(ctx, "fam-1", task.ID)
	if err != nil || first.DoneAt == nil {
		t.Fatalf("complete: %+v, %v", first, err)
	}
	second, err := r.Complete(ctx, "fam-1", task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !second.DoneAt.Equal(*first.DoneAt) {
		t.Fatal("repetir complete no debe mover DoneAt")
	}
}

func TestTask_ListByFamilyFiltersDone(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()

	open, _ := r.Create(ctx, repository.CreateTaskInput{FamilyID: "fam-1", Title: "Pendiente"})
	done, _ := r.Create(ctx, repository.CreateTaskInput{FamilyID: "fam-1", Title: "Hecha"})
	if _, err := r.Complete(ctx, "fam-1", done.ID); err != nil {
		t.Fatal(err)
	}

	pending, err := r.ListByFamily(ctx, "fam-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != open.ID {
		t.Fatalf("pendientes: %+v", pending)
	}
	all, err := r.ListByFamily(ctx, "fam-1", true)
	if err != nil || len(all) != 2 {
		t.Fatalf("todas: %+v, %v", all, err)
	}
}

func TestMealPlan_SlotConflict(t *testing.T) {
	ctx := context.Background()
	r := NewMealPlanRepository()
	day := time.Date(2026, 8, 30, 14, 3, 0, 0, time.UTC)

	_, err := r.Create(ctx, repository.CreateMealPlanInput{
		FamilyID: "fam-1", Date: day, Slot: repository.SlotDinner, RecipeID: "rec-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Misma familia, mismo día (distinta hora), mismo slot: conflicto.
	_, err = r.Create(ctx, repository.CreateMealPlanInput{
		FamilyID: "fam-1", Date: day.Add(3 * time.Hour), Slot: repository.SlotDinner, RecipeID: "rec-2",
	})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("esperaba conflict, got %v", err)
	}
	// Otro slot u otra familia no chocan.
	if _, err := r.Create(ctx, repository.CreateMealPlanInput{
		FamilyID: "fam-1", Date: day, Slot: repository.SlotLunch, RecipeID: "rec-2",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(ctx, repository.CreateMealPlanInput{
		FamilyID: "fam-2", Date: day, Slot: repository.SlotDinner, RecipeID: "rec-2",
	}); err != nil {
		t.Fatal(err)
	}
}

func TestRecipe_Search(t *testing.T) {
	ctx := context.Background()
	r := NewRecipeRepository()

	mk := func(name string, tags ...string) {
		t.Helper()
		if _, err := r.Create(ctx, repository.CreateRecipeInput{FamilyID: "fam-1", Name: name, Tags: tags}); err != nil {
			t.Fatal(err)
		}
	}
	mk("Lentejas con chorizo", "legumbres", "invierno")
	mk("Ensalada de lentejas", "legumbres", "verano")
	mk("Tortilla de patatas")

	byName, err := r.Search(ctx, "fam-1", "lentejas")
	if err != nil || len(byName) != 2 {
		t.Fatalf("por nombre: %d, %v", len(byName), err)
	}
	byTag, err := r.Search(ctx, "fam-1", "verano")
	if err != nil || len(byTag) != 1 || byTag[0].Name != "Ensalada de lentejas" {
		t.Fatalf("por tag: %+v, %v", byTag, err)
	}
	all, err := r.Search(ctx, "fam-1", "")
	if err != nil || len(all) != 3 {
		t.Fatalf("query vacía lista todo: %d, %v", len(all), err)
	}
}
