package planner_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"mealprep"
	"mealprep/planner"
	"mealprep/recipes"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type fakeProvider struct {
	hasKey bool
	mocks  []mealprep.Recipe
	search func(mealprep.SearchParams) ([]mealprep.Recipe, error)

	mu     sync.Mutex
	params []mealprep.SearchParams
}

func (f *fakeProvider) HasAPIKey() bool { return f.hasKey }

func (f *fakeProvider) Search(_ context.Context, p mealprep.SearchParams) ([]mealprep.Recipe, error) {
	f.mu.Lock()
	f.params = append(f.params, p)
	f.mu.Unlock()
	return f.search(p)
}

func (f *fakeProvider) Random(context.Context, int, string) ([]mealprep.Recipe, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) ByID(context.Context, int) (mealprep.Recipe, error) {
	return mealprep.Recipe{}, errors.New("not used")
}

func (f *fakeProvider) ByIngredients(context.Context, []string, int) ([]mealprep.Recipe, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) MockRecipes() []mealprep.Recipe {
	if f.mocks != nil {
		return f.mocks
	}
	return recipes.MockRecipes()
}

type recordingLogger struct {
	slots []mealprep.SlotLog
}

func (r *recordingLogger) LogSlot(s mealprep.SlotLog) error {
	r.slots = append(r.slots, s)
	return nil
}

func TestMaxReadyTime(t *testing.T) {
	should.Equal(t, 30, planner.MaxReadyTime(mealprep.PrepQuick))
	should.Equal(t, 60, planner.MaxReadyTime(mealprep.PrepMedium))
	should.Equal(t, 0, planner.MaxReadyTime(mealprep.PrepLong))
	should.Equal(t, 0, planner.MaxReadyTime(""))
}

func TestGenerate_MockCatalog(t *testing.T) {
	logger := &recordingLogger{}
	plan := planner.Generate(context.Background(), &fakeProvider{}, planner.Options{Logger: logger})

	should.Equal(t, mealprep.SlotCount, plan.Filled())
	for _, day := range mealprep.Days {
		should.Equal(t, 3, plan.Slot(day, mealprep.Breakfast).ID, day)
		should.Equal(t, 1, plan.Slot(day, mealprep.Lunch).ID, day)
		should.Equal(t, 2, plan.Slot(day, mealprep.Dinner).ID, day)
	}

	must.Len(t, logger.slots, mealprep.SlotCount)
	should.Equal(t, mealprep.Monday, logger.slots[0].Day)
	should.Equal(t, mealprep.Breakfast, logger.slots[0].MealType)
	should.Equal(t, planner.SourceMock, logger.slots[0].Source)
	should.Equal(t, "Avocado Toast with Poached Egg", logger.slots[0].RecipeTitle)
}

func TestGenerate_MockFallsBackToRandom(t *testing.T) {
	mocks := []mealprep.Recipe{
		{ID: 10, DishTypes: []string{"snack"}},
		{ID: 11, DishTypes: []string{"dessert"}},
	}
	p := &fakeProvider{mocks: mocks}

	plan := planner.Generate(context.Background(), p, planner.Options{Rand: rand.New(rand.NewPCG(1, 2))})

	should.Equal(t, mealprep.SlotCount, plan.Filled())
	for _, day := range mealprep.Days {
		for _, meal := range mealprep.MealTypes {
			r := plan.Slot(day, meal)
			must.NotNil(t, r)
			should.Contains(t, []int{10, 11}, r.ID)
		}
	}
}

func TestGenerate_EmptyMockCatalog(t *testing.T) {
	p := &fakeProvider{mocks: []mealprep.Recipe{}}
	plan := planner.Generate(context.Background(), p, planner.Options{})
	should.Zero(t, plan.Filled())
	should.Len(t, plan, len(mealprep.Days))
}

func TestGenerate_Provider(t *testing.T) {
	p := &fakeProvider{
		hasKey: true,
		search: func(sp mealprep.SearchParams) ([]mealprep.Recipe, error) {
			return []mealprep.Recipe{{ID: 100, Title: sp.Type}, {ID: 101}}, nil
		},
	}

	plan := planner.Generate(context.Background(), p, planner.Options{
		DietaryRestrictions: []string{"vegetarian", "gluten free"},
		MealPrepTime:        mealprep.PrepQuick,
	})

	should.Equal(t, mealprep.SlotCount, plan.Filled())
	should.Equal(t, "dinner", plan.Slot(mealprep.Friday, mealprep.Dinner).Title)

	must.Len(t, p.params, mealprep.SlotCount)
	first := p.params[0]
	should.Equal(t, "breakfast", first.Type)
	should.Equal(t, "vegetarian,gluten free", first.Diet)
	should.Equal(t, 1, first.Number)
	should.Equal(t, 30, first.MaxReadyTime)
}

func TestGenerate_FailedSlotsStayEmpty(t *testing.T) {
	boom := errors.New("quota")
	p := &fakeProvider{
		hasKey: true,
		search: func(sp mealprep.SearchParams) ([]mealprep.Recipe, error) {
			switch sp.Type {
			case "lunch":
				return nil, boom
			case "dinner":
				return nil, nil
			}
			return []mealprep.Recipe{{ID: 5}}, nil
		},
	}
	logger := &recordingLogger{}

	plan := planner.Generate(context.Background(), p, planner.Options{MealPrepTime: mealprep.PrepLong, Logger: logger})

	should.Equal(t, len(mealprep.Days), plan.Filled())
	should.Nil(t, plan.Slot(mealprep.Monday, mealprep.Lunch))
	should.Nil(t, plan.Slot(mealprep.Monday, mealprep.Dinner))
	should.Equal(t, 5, plan.Slot(mealprep.Sunday, mealprep.Breakfast).ID)
	should.Zero(t, p.params[0].MaxReadyTime)

	must.Len(t, logger.slots, mealprep.SlotCount)
	should.Equal(t, "quota", logger.slots[1].Error)
	should.Equal(t, planner.SourceProvider, logger.slots[1].Source)
	should.Empty(t, logger.slots[2].Error)
}
