package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// Distributor selects recipes for a plan under budget and composition
// constraints
type Distributor struct {
	config Config
}

// NewDistributor creates a distributor with the default configuration
func NewDistributor() *Distributor {
	return NewDistributorWithConfig(DefaultConfig())
}

// NewDistributorWithConfig creates a distributor with a custom configuration
func NewDistributorWithConfig(config Config) *Distributor {
	return &Distributor{config: config}
}

// CreatePlan selects req.NumItems recipes from the candidates, prices the
// aggregated ingredients in whole packages and swaps out the recipe with the
// largest marginal cost while the plan is over budget, at most
// req.MaxNumIterations times.
//
// Precondition failures are returned as *entities.InvariantViolation before
// any selection work. Everything else degrades into Plan.Warnings.
func (d *Distributor) CreatePlan(candidates []entities.Recipe, req entities.PlanRequest) (*entities.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pool, err := BuildPool(candidates, req.NumItems)
	if err != nil {
		return nil, err
	}
	scorer := NewScorer(pool, d.config)

	r := &run{
		pool:     pool,
		scorer:   scorer,
		req:      req,
		config:   d.config,
		selected: make([]entities.RecipeID, 0, req.NumItems),
		isIn:     make(map[entities.RecipeID]bool, req.NumItems),
		tried:    make(map[entities.RecipeID]bool),
	}
	r.warnings = append(r.warnings, pool.Warnings...)
	r.warnings = append(r.warnings, scorer.Warnings...)

	return r.execute(), nil
}

// pricing is the outcome of one PRICE evaluation. notes and removals are
// the selection changes that led to it.
type pricing struct {
	selected    []entities.RecipeID
	ingredients map[entities.ProductID]*entities.PlanIngredient
	total       decimal.Decimal
	remaining   decimal.Decimal
	swaps       int
	notes       []string
	removals    []entities.RecipeRemoval
}

// run holds the mutable state of a single planning invocation
type run struct {
	pool   *Pool
	scorer *Scorer
	req    entities.PlanRequest
	config Config

	selected []entities.RecipeID
	isIn     map[entities.RecipeID]bool
	tried    map[entities.RecipeID]bool // removed to fit budget; never reselected

	warnings    []string
	notes       []string // relaxations and swaps, in order
	removals    []entities.RecipeRemoval
	iterations  int
	evaluations int
}

func (r *run) execute() *entities.Plan {
	log := r.config.Logger
	maxIterations := r.req.Iterations()

	r.fill()
	log.Debug().
		Str("state", "SELECT").
		Int("selected", len(r.selected)).
		Int("candidates", len(r.pool.Recipes)).
		Msg("initial selection")

	var current, best *pricing
	reason := ""
	for {
		current = r.price()
		if best == nil || current.remaining.GreaterThan(best.remaining) {
			best = current
		}

		if !current.remaining.IsNegative() {
			break
		}
		if r.iterations >= maxIterations {
			reason = fmt.Sprintf("no plan within budget found after %d iterations", maxIterations)
			break
		}

		ok, why := r.swap(current.total)
		if !ok {
			reason = why
			break
		}
		r.iterations++
	}

	final := current
	if current.remaining.IsNegative() {
		final = best
	}
	r.warnings = append(r.warnings, final.notes...)
	r.removals = final.removals
	if final != current {
		r.setSelection(final.selected)
		r.warn(
			"returning the cheapest selection found; discarded %d later swaps that did not fit the budget",
			r.iterations-final.swaps,
		)
	}
	if final.remaining.IsNegative() {
		r.warn(
			"budget exceeded by %s: %s",
			final.remaining.Neg().StringFixed(r.config.CurrencyPlaces),
			reason,
		)
	}
	log.Debug().
		Str("state", "DONE").
		Int("iterations", r.iterations).
		Int("evaluations", r.evaluations).
		Str("remaining", final.remaining.String()).
		Msg("plan finished")

	r.reportShortfalls()

	return r.buildPlan(final)
}

// fill is the SELECT state: it adds the best-ranked eligible recipe until the
// requested count is reached or candidates run out
func (r *run) fill() {
	for len(r.selected) < r.req.NumItems {
		id, note, ok := r.next()
		if !ok {
			return
		}
		r.add(id)
		if note != "" {
			r.notes = append(r.notes, note)
		}
	}
}

// next picks the best-ranked recipe that is neither selected nor already
// tried. Recipes in a category whose target is met are only considered when
// nothing else is left and relaxing is allowed; the returned note documents
// the relaxation.
func (r *run) next() (entities.RecipeID, string, bool) {
	composition := r.composition()

	var open, capped []entities.Recipe
	for _, recipe := range r.pool.Recipes {
		if r.isIn[recipe.ID] || r.tried[recipe.ID] {
			continue
		}
		if len(r.exceededTargets(recipe, composition)) > 0 {
			capped = append(capped, recipe)
		} else {
			open = append(open, recipe)
		}
	}

	if len(open) > 0 {
		return r.scorer.Rank(open, composition)[0].RecipeID, "", true
	}
	if len(capped) == 0 || !r.config.RelaxComposition {
		return 0, "", false
	}

	id := r.scorer.Rank(capped, composition)[0].RecipeID
	recipe, _ := r.pool.Recipe(id)
	note := fmt.Sprintf(
		"composition constraint relaxed: selected recipe %d (%s) beyond the %s",
		recipe.ID,
		recipe.Title,
		strings.Join(r.exceededTargets(*recipe, composition), " and "),
	)
	return id, note, true
}

// exceededTargets lists the composition targets the recipe would overshoot
func (r *run) exceededTargets(recipe entities.Recipe, composition Composition) []string {
	var targets []string
	if recipe.IsPescatarian && composition.Pescatarian >= composition.TargetPescatarian {
		targets = append(targets, fmt.Sprintf("pescatarian target of %d", composition.TargetPescatarian))
	}
	if recipe.IsVegetarian && composition.Vegetarian >= composition.TargetVegetarian {
		targets = append(targets, fmt.Sprintf("vegetarian target of %d", composition.TargetVegetarian))
	}
	return targets
}

// price is the PRICE state
func (r *run) price() *pricing {
	r.evaluations++

	ingredients := r.pool.Price(r.selected)
	total := TotalCost(ingredients)
	remaining := entities.RoundHalfUp(r.req.Budget.Sub(total), r.config.CurrencyPlaces)

	r.config.Logger.Debug().
		Str("state", "PRICE").
		Int("evaluation", r.evaluations).
		Str("total", total.String()).
		Str("remaining", remaining.String()).
		Msg("priced selection")

	selected := make([]entities.RecipeID, len(r.selected))
	copy(selected, r.selected)

	return &pricing{
		selected:    selected,
		ingredients: ingredients,
		total:       total,
		remaining:   remaining,
		swaps:       r.iterations,
		notes:       r.notes[:len(r.notes):len(r.notes)],
		removals:    r.removals[:len(r.removals):len(r.removals)],
	}
}

// swap removes the recipe with the largest marginal cost and selects one
// replacement. It reports false with a reason when no swap is possible.
func (r *run) swap(total decimal.Decimal) (bool, string) {
	victim, relaxNote, ok := r.pickRemoval(total)
	if !ok {
		return false, "every selected recipe is needed to meet the composition targets"
	}

	index := r.remove(victim)
	r.tried[victim] = true

	replacement, note, ok := r.next()
	if !ok {
		delete(r.tried, victim)
		r.insert(index, victim)
		return false, "no further recipes available to swap"
	}
	r.add(replacement)

	if relaxNote != "" {
		r.notes = append(r.notes, relaxNote)
	}
	if note != "" {
		r.notes = append(r.notes, note)
	}

	removed, _ := r.pool.Recipe(victim)
	added, _ := r.pool.Recipe(replacement)
	removal := entities.RecipeRemoval{
		RecipeID:         removed.ID,
		Title:            removed.Title,
		ReplacementID:    added.ID,
		ReplacementTitle: added.Title,
		Message: fmt.Sprintf(
			"removed recipe %d (%s) to fit budget; replaced with recipe %d (%s)",
			removed.ID,
			removed.Title,
			added.ID,
			added.Title,
		),
	}
	r.removals = append(r.removals, removal)
	r.notes = append(r.notes, removal.Message)
	r.config.Logger.Debug().
		Str("state", "CHECK").
		Int64("removed", int64(victim)).
		Int64("added", int64(replacement)).
		Msg("swapped recipe")

	return true, ""
}

// pickRemoval finds the selected recipe whose removal lowers the plan cost
// the most. Ties go to the higher stand-alone estimate, then the lower id.
// Recipes needed to keep a composition target are skipped unless every
// selected recipe is needed.
func (r *run) pickRemoval(total decimal.Decimal) (entities.RecipeID, string, bool) {
	composition := r.composition()

	var candidates []entities.RecipeID
	for _, id := range r.selected {
		recipe, _ := r.pool.Recipe(id)
		if !r.isProtected(*recipe, composition) {
			candidates = append(candidates, id)
		}
	}

	relaxed := false
	if len(candidates) == 0 {
		if !r.config.RelaxComposition || len(r.selected) == 0 {
			return 0, "", false
		}
		candidates = append(candidates, r.selected...)
		relaxed = true
	}

	var (
		victim       entities.RecipeID
		bestDelta    decimal.Decimal
		bestEstimate decimal.Decimal
		found        bool
	)
	for _, id := range candidates {
		delta := total.Sub(TotalCost(r.pool.Price(without(r.selected, id))))
		estimate := r.scorer.EstimatedCost(id)

		better := !found ||
			delta.GreaterThan(bestDelta) ||
			(delta.Equal(bestDelta) && estimate.GreaterThan(bestEstimate)) ||
			(delta.Equal(bestDelta) && estimate.Equal(bestEstimate) && id < victim)
		if better {
			victim, bestDelta, bestEstimate, found = id, delta, estimate, true
		}
	}

	note := ""
	if relaxed {
		recipe, _ := r.pool.Recipe(victim)
		note = fmt.Sprintf(
			"composition constraint relaxed: removed recipe %d (%s) needed for the composition targets to fit budget",
			recipe.ID,
			recipe.Title,
		)
	}
	return victim, note, true
}

// isProtected reports whether removing the recipe would drop a category
// below its target
func (r *run) isProtected(recipe entities.Recipe, composition Composition) bool {
	if recipe.IsPescatarian && composition.Pescatarian <= composition.TargetPescatarian {
		return true
	}
	if recipe.IsVegetarian && composition.Vegetarian <= composition.TargetVegetarian {
		return true
	}
	return false
}

func (r *run) reportShortfalls() {
	if len(r.selected) < r.req.NumItems {
		r.warn("could not find enough eligible recipes: selected %d of %d", len(r.selected), r.req.NumItems)
	}

	composition := r.composition()
	if composition.Pescatarian < composition.TargetPescatarian {
		r.warn(
			"could not find enough pescatarian recipes: selected %d of %d",
			composition.Pescatarian,
			composition.TargetPescatarian,
		)
	}
	if composition.Vegetarian < composition.TargetVegetarian {
		r.warn(
			"could not find enough vegetarian recipes: selected %d of %d",
			composition.Vegetarian,
			composition.TargetVegetarian,
		)
	}
}

func (r *run) buildPlan(final *pricing) *entities.Plan {
	recipes := make([]entities.PlanRecipe, len(r.selected))
	for i, id := range r.selected {
		recipe, _ := r.pool.Recipe(id)
		recipes[i] = entities.PlanRecipe{
			RecipeID:      recipe.ID,
			Title:         recipe.Title,
			Position:      i + 1,
			IsVegetarian:  recipe.IsVegetarian,
			IsPescatarian: recipe.IsPescatarian,
			EstimatedCost: r.scorer.EstimatedCost(id),
		}
	}

	return &entities.Plan{
		Budget:              r.req.Budget,
		Recipes:             recipes,
		CompleteIngredients: final.ingredients,
		Warnings:            r.warnings,
		Removals:            r.removals,
		TotalCost:           final.total,
		RemainingBudget:     final.remaining,
		Iterations:          r.iterations,
		PriceEvaluations:    r.evaluations,
	}
}

func (r *run) composition() Composition {
	composition := Composition{
		TargetPescatarian: r.req.NumPescatarian,
		TargetVegetarian:  r.req.NumVegetarian,
	}
	for _, id := range r.selected {
		recipe, _ := r.pool.Recipe(id)
		if recipe.IsPescatarian {
			composition.Pescatarian++
		}
		if recipe.IsVegetarian {
			composition.Vegetarian++
		}
	}
	return composition
}

func (r *run) add(id entities.RecipeID) {
	r.selected = append(r.selected, id)
	r.isIn[id] = true
}

// remove drops the recipe from the selection and returns its former index
func (r *run) remove(id entities.RecipeID) int {
	for i, selected := range r.selected {
		if selected == id {
			r.selected = append(r.selected[:i], r.selected[i+1:]...)
			delete(r.isIn, id)
			return i
		}
	}
	return -1
}

func (r *run) insert(index int, id entities.RecipeID) {
	if index < 0 || index > len(r.selected) {
		index = len(r.selected)
	}
	r.selected = append(r.selected, 0)
	copy(r.selected[index+1:], r.selected[index:])
	r.selected[index] = id
	r.isIn[id] = true
}

func (r *run) setSelection(ids []entities.RecipeID) {
	r.selected = append(r.selected[:0], ids...)
	r.isIn = make(map[entities.RecipeID]bool, len(ids))
	for _, id := range ids {
		r.isIn[id] = true
	}
}

func (r *run) warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func without(ids []entities.RecipeID, id entities.RecipeID) []entities.RecipeID {
	rest := make([]entities.RecipeID, 0, len(ids))
	for _, other := range ids {
		if other != id {
			rest = append(rest, other)
		}
	}
	return rest
}
