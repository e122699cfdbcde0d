// Package menu drives the interactive menus. Every loop returns a Result to
// its caller instead of re-entering the parent menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory/internal/console"
	"github.com/mamadbah2/inventory/internal/domain/models"
	"github.com/mamadbah2/inventory/internal/repository/sheets"
	"github.com/mamadbah2/inventory/internal/service/inventory"
	"github.com/mamadbah2/inventory/internal/validation"
)

// Result tells the enclosing loop what to do next.
type Result int

const (
	// Continue keeps the current menu open.
	Continue Result = iota
	// Back leaves the current menu for its parent.
	Back
	// Exit quits the application.
	Exit
)

// Inventory is the set of operations the menus need.
type Inventory interface {
	List(ctx context.Context) ([]models.Item, error)
	Search(ctx context.Context, term string) ([]models.Item, error)
	Add(ctx context.Context, item models.Item) error
	Update(ctx context.Context, current, item models.Item) error
	Delete(ctx context.Context, item models.Item) error
}

var (
	mainOptions = []console.Option{
		{Key: "1", Label: "View Inventory"},
		{Key: "2", Label: "Operations"},
		{Key: "9", Label: "Help"},
		{Key: "0", Label: "Exit"},
	}
	operationOptions = []console.Option{
		{Key: "1", Label: "Add"},
		{Key: "2", Label: "Update"},
		{Key: "3", Label: "Delete"},
		{Key: "4", Label: "Search"},
		{Key: "9", Label: "Help"},
		{Key: "0", Label: "Back"},
	}
	searchOptions = []console.Option{
		{Key: "1", Label: "Update"},
		{Key: "2", Label: "Delete"},
		{Key: "0", Label: "Back"},
	}
)

// App owns the menu loops.
type App struct {
	inventory Inventory
	prompt    *console.Prompter
	console   *console.Console
	logger    *zap.Logger
}

// New wires the menus to the inventory and the terminal.
func New(inv Inventory, prompt *console.Prompter, out *console.Console, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{inventory: inv, prompt: prompt, console: out, logger: logger}
}

// Run shows the main menu until the user quits or the input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		a.console.Menu("Inventory Management System", mainOptions)

		choice, err := a.prompt.Ask(selection("Choose an operation: ", mainOptions))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read main menu choice: %w", err)
		}

		switch choice {
		case "1":
			a.viewInventory(ctx)
		case "2":
			if a.operationsMenu(ctx) == Exit {
				return nil
			}
		case "9":
			a.console.Help()
		case "0":
			a.console.Info("Quitting the application...")
			return nil
		}
	}
}

func (a *App) operationsMenu(ctx context.Context) Result {
	for {
		a.console.Menu("Operations Menu", operationOptions)

		choice, err := a.prompt.Ask(selection("Select an option: ", operationOptions))
		if err != nil {
			return a.abort(err)
		}

		var res Result
		switch choice {
		case "0":
			return Back
		case "1":
			res = a.addItem(ctx)
		case "2":
			res = a.updateItem(ctx)
		case "3":
			res = a.deleteItem(ctx)
		case "4":
			res = a.searchInventory(ctx)
		case "9":
			a.console.Help()
		}

		if res == Exit {
			return Exit
		}
	}
}

func (a *App) searchInventory(ctx context.Context) Result {
	for {
		a.console.Menu("Search Inventory", searchOptions)

		term, err := a.prompt.Ask(console.Field{
			Label: "Enter the name of the item to search (or other operation): ",
			Rule:  validation.Rule{AllowEmpty: true},
		})
		if err != nil {
			return a.abort(err)
		}

		switch term {
		case "0":
			a.console.Info("Going back...")
			return Back
		case "1":
			if a.updateItem(ctx) == Exit {
				return Exit
			}
			continue
		case "2":
			if a.deleteItem(ctx) == Exit {
				return Exit
			}
			continue
		}

		found, err := a.inventory.Search(ctx, term)
		if err != nil {
			a.reportFailure("retrieve inventory data", err)
			continue
		}
		if len(found) == 0 {
			a.console.Error("No items or operation found for '%s'.", term)
			continue
		}

		title := "Inventory Items"
		if term != "" {
			title = fmt.Sprintf("Search results for %s", term)
		}
		a.console.RenderItems(title, found)
	}
}

func (a *App) viewInventory(ctx context.Context) {
	items, err := a.inventory.List(ctx)
	if err != nil {
		a.reportFailure("retrieve inventory data", err)
		return
	}
	a.console.RenderItems("Inventory Items", items)
}

// abort maps a prompt error to the result of the flow that asked.
func (a *App) abort(err error) Result {
	switch {
	case errors.Is(err, console.ErrCanceled):
		a.console.Warn("Operation aborted!")
		return Continue
	case errors.Is(err, io.EOF):
		return Exit
	default:
		a.logger.Error("failed to read input", zap.Error(err))
		return Exit
	}
}

func (a *App) reportFailure(action string, err error) {
	a.logger.Error("inventory operation failed", zap.String("action", action), zap.Error(err))

	msg := err.Error()
	var remote *inventory.RemoteError
	if errors.As(err, &remote) {
		msg = sheets.Describe(remote.Err)
	}
	a.console.Error("Failed to %s: %s", action, msg)
}

func selection(label string, options []console.Option) console.Field {
	keys := make([]string, len(options))
	for i, opt := range options {
		keys[i] = opt.Key
	}
	return console.Field{Label: label, Rule: validation.Rule{Options: keys}}
}
