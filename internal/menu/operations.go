package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamadbah2/inventory/internal/console"
	"github.com/mamadbah2/inventory/internal/domain/models"
	"github.com/mamadbah2/inventory/internal/validation"
)

type itemField struct {
	label string
	rule  validation.Rule
	value func(*models.Item) *string
}

var itemFields = []itemField{
	{"item name", validation.NameRule, func(i *models.Item) *string { return &i.Name }},
	{"item type", validation.TypeRule, func(i *models.Item) *string { return &i.Type }},
	{"item quantity", validation.QuantityRule, func(i *models.Item) *string { return &i.Quantity }},
	{"item measurement unit", validation.UnitRule, func(i *models.Item) *string { return &i.Unit }},
}

func (a *App) addItem(ctx context.Context) Result {
	a.console.Heading("Add new item")
	a.console.Info("Fill the fields, or submit '%s' to cancel at any time:", console.CancelToken)

	item, err := a.askItem(nil)
	if err != nil {
		return a.abort(err)
	}

	items, err := a.inventory.List(ctx)
	if err != nil {
		a.reportFailure("retrieve inventory data", err)
		return Continue
	}
	item.Index = len(items) + 1
	a.console.RenderItems("Item to save:", []models.Item{item})

	ok, err := a.prompt.Confirm("Do you want to save this item? (y/n) ")
	if err != nil {
		return a.abort(err)
	}
	if !ok {
		a.console.Warn("Operation aborted!")
		return Continue
	}

	if err := a.inventory.Add(ctx, item); err != nil {
		a.reportFailure("save item", err)
		return Continue
	}
	a.console.Success("Item saved successfully!")
	return Continue
}

func (a *App) updateItem(ctx context.Context) Result {
	current, res, ok := a.pickItem(ctx, "update")
	if !ok {
		return res
	}

	a.console.RenderItems("Item to update:", []models.Item{current})
	a.console.Info("Fill the fields, or submit '%s' to cancel at any time:", console.CancelToken)

	updated, err := a.askItem(&current)
	if err != nil {
		return a.abort(err)
	}
	a.console.RenderItems("The new item updated:", []models.Item{updated})

	confirmed, err := a.prompt.Confirm("Do you want to save this item? (y/n) ")
	if err != nil {
		return a.abort(err)
	}
	if !confirmed {
		a.console.Warn("Operation aborted!")
		return Continue
	}

	if err := a.inventory.Update(ctx, current, updated); err != nil {
		a.reportFailure("update item", err)
		return Continue
	}
	a.console.Success("Item updated successfully!")
	return Continue
}

func (a *App) deleteItem(ctx context.Context) Result {
	item, res, ok := a.pickItem(ctx, "delete")
	if !ok {
		return res
	}

	a.console.Error("Item to delete:")
	a.console.RenderItems("", []models.Item{item})

	confirmed, err := a.prompt.Confirm("Are you sure you want to delete this item? (y/n) ")
	if err != nil {
		return a.abort(err)
	}
	if !confirmed {
		a.console.Warn("Deletion canceled!")
		return Continue
	}

	if err := a.inventory.Delete(ctx, item); err != nil {
		a.reportFailure("delete item", err)
		return Continue
	}
	a.console.Success("Item deleted successfully!")
	return Continue
}

// askItem prompts for the four item fields. With a current item, blank
// answers keep the current values.
func (a *App) askItem(current *models.Item) (models.Item, error) {
	var item models.Item
	if current != nil {
		item = *current
	}

	for _, f := range itemFields {
		field := console.Field{
			Label:      fmt.Sprintf("Enter %s: ", f.label),
			Rule:       f.rule,
			Cancelable: true,
		}
		if current != nil {
			field.Label = fmt.Sprintf("Enter new %s (leave blank to keep '%s'): ", f.label, *f.value(current))
			field.Rule.AllowEmpty = true
		}

		value, err := a.prompt.Ask(field)
		if err != nil {
			return models.Item{}, err
		}
		if value != "" {
			*f.value(&item) = value
		}
	}

	return item, nil
}

// pickItem fetches the inventory and asks for the index of one item. ok is
// false when no item was picked; res then says how the caller should proceed.
func (a *App) pickItem(ctx context.Context, verb string) (item models.Item, res Result, ok bool) {
	items, err := a.inventory.List(ctx)
	if err != nil {
		a.reportFailure("retrieve inventory data", err)
		return models.Item{}, Continue, false
	}
	if len(items) == 0 {
		a.console.Error("No items in inventory.")
		return models.Item{}, Continue, false
	}

	label := fmt.Sprintf("Enter the index to %s an item (1 - %d), or '0' to cancel: ", verb, len(items))
	for {
		raw, err := a.prompt.Ask(console.Field{
			Label:      label,
			Rule:       validation.Rule{Description: "Index", AllowEmpty: true},
			Cancelable: true,
		})
		if err != nil {
			return models.Item{}, a.abort(err), false
		}
		if raw == "0" {
			a.console.Warn("Operation aborted!")
			return models.Item{}, Continue, false
		}

		index, err := validation.ParseIndex(raw, len(items))
		switch {
		case errors.Is(err, validation.ErrNotANumber):
			a.console.Error("Invalid input '%s'. Please enter a number.", raw)
			continue
		case err != nil:
			a.console.Error("Invalid index '%s'. Index should be between 1 and %d.", raw, len(items))
			continue
		}

		return items[index-1], Continue, true
	}
}
